package supabase_test

import (
	"fmt"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"ai-hub-backend/internal/supabase"
)

func TestStorageClient_GetPublicURL(t *testing.T) {
	client, err := supabase.NewStorageClient("https://example.supabase.co/", "test-key", "deliverables")
	require.NoError(t, err)

	url := client.GetPublicURL("users/abc/orders/def/v1/render.png")
	assert.Equal(t, "https://example.supabase.co/storage/v1/object/public/deliverables/users/abc/orders/def/v1/render.png", url)
}

func TestDeliverablePathFormat(t *testing.T) {
	sellerID := uuid.New()
	orderID := uuid.New()
	filename := "render.png"

	expectedPath := fmt.Sprintf("users/%s/orders/%s/v2/%s", sellerID, orderID, filename)

	// Verify path format
	assert.Contains(t, expectedPath, "users/")
	assert.Contains(t, expectedPath, "orders/")
	assert.Contains(t, expectedPath, "/v2/")
	assert.Contains(t, expectedPath, filename)
}
