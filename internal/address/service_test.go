package address

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/droproute/droproute/internal/api/models"
)

func strPtr(s string) *string { return &s }

func newTestService() *Service {
	return NewService(NewInMemoryRepository())
}

func TestService_Create(t *testing.T) {
	service := newTestService()

	created, err := service.Create(context.Background(), &models.AddressCreateRequest{
		FullAddress:       "500 Embarcadero, San Francisco, CA",
		ExactDeliveryTime: strPtr("14:30"),
	})
	require.NoError(t, err)

	assert.NotEmpty(t, created.ID)
	assert.Equal(t, "500 Embarcadero, San Francisco, CA", created.FullAddress)
	assert.Equal(t, models.TimeWindowAny, created.TimeWindow, "time window defaults to ANY")
	assert.Equal(t, models.PriorityNormal, created.Priority, "priority defaults to NORMAL")
	require.NotNil(t, created.ExactDeliveryTime)
	assert.Equal(t, "14:30", *created.ExactDeliveryTime)
}

func TestService_Create_Validation(t *testing.T) {
	tests := []struct {
		name  string
		input models.AddressCreateRequest
		field string
	}{
		{
			name:  "missing full address",
			input: models.AddressCreateRequest{},
			field: "fullAddress",
		},
		{
			name: "malformed delivery time",
			input: models.AddressCreateRequest{
				FullAddress:       "12 Main St",
				ExactDeliveryTime: strPtr("25:99"),
			},
			field: "exactDeliveryTime",
		},
		{
			name: "delivery time missing minutes",
			input: models.AddressCreateRequest{
				FullAddress:       "12 Main St",
				ExactDeliveryTime: strPtr("9"),
			},
			field: "exactDeliveryTime",
		},
		{
			name: "unknown time window",
			input: models.AddressCreateRequest{
				FullAddress: "12 Main St",
				TimeWindow:  (*models.TimeWindow)(strPtr("MIDNIGHT")),
			},
			field: "timeWindow",
		},
		{
			name: "unknown priority",
			input: models.AddressCreateRequest{
				FullAddress: "12 Main St",
				Priority:    (*models.Priority)(strPtr("URGENT")),
			},
			field: "priority",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			service := newTestService()

			_, err := service.Create(context.Background(), &tt.input)

			var validationErr *ValidationError
			require.ErrorAs(t, err, &validationErr)
			require.NotEmpty(t, validationErr.Errors)
			assert.Equal(t, tt.field, validationErr.Errors[0].Field)
		})
	}
}

func TestService_Create_AcceptsSingleDigitHour(t *testing.T) {
	service := newTestService()

	created, err := service.Create(context.Background(), &models.AddressCreateRequest{
		FullAddress:       "12 Main St",
		ExactDeliveryTime: strPtr("9:05"),
	})
	require.NoError(t, err)
	assert.Equal(t, "9:05", *created.ExactDeliveryTime)
}

func TestService_Update(t *testing.T) {
	service := newTestService()
	ctx := context.Background()

	created, err := service.Create(ctx, &models.AddressCreateRequest{
		FullAddress:       "12 Main St",
		ExactDeliveryTime: strPtr("09:00"),
	})
	require.NoError(t, err)

	updated, err := service.Update(ctx, created.ID, &models.AddressUpdateRequest{
		Priority:          (*models.Priority)(strPtr("HIGH")),
		ExactDeliveryTime: strPtr(""),
	})
	require.NoError(t, err)

	assert.Equal(t, models.PriorityHigh, updated.Priority)
	assert.Nil(t, updated.ExactDeliveryTime, "empty string clears the delivery time")
	assert.Equal(t, "12 Main St", updated.FullAddress, "unspecified fields are preserved")
}

func TestService_Update_NotFound(t *testing.T) {
	service := newTestService()

	_, err := service.Update(context.Background(), "adr_missing", &models.AddressUpdateRequest{
		FullAddress: strPtr("1 New Rd"),
	})
	assert.True(t, errors.Is(err, ErrAddressNotFound))
}

func TestService_Delete(t *testing.T) {
	service := newTestService()
	ctx := context.Background()

	created, err := service.Create(ctx, &models.AddressCreateRequest{FullAddress: "12 Main St"})
	require.NoError(t, err)

	require.NoError(t, service.Delete(ctx, created.ID))

	_, err = service.Get(ctx, created.ID)
	assert.True(t, errors.Is(err, ErrAddressNotFound))

	assert.True(t, errors.Is(service.Delete(ctx, created.ID), ErrAddressNotFound))
}

func TestService_List_PreservesInsertionOrder(t *testing.T) {
	service := newTestService()
	ctx := context.Background()

	inputs := []string{"1 First St", "2 Second St", "3 Third St"}
	for _, fa := range inputs {
		_, err := service.Create(ctx, &models.AddressCreateRequest{FullAddress: fa})
		require.NoError(t, err)
	}

	paged, err := service.List(ctx, 50, "")
	require.NoError(t, err)
	require.Len(t, paged.Items, 3)

	for i, item := range paged.Items {
		assert.Equal(t, inputs[i], item.FullAddress)
	}
}

func TestService_List_Pagination(t *testing.T) {
	service := newTestService()
	ctx := context.Background()

	for _, fa := range []string{"1 First St", "2 Second St", "3 Third St"} {
		_, err := service.Create(ctx, &models.AddressCreateRequest{FullAddress: fa})
		require.NoError(t, err)
	}

	first, err := service.List(ctx, 2, "")
	require.NoError(t, err)
	require.Len(t, first.Items, 2)
	require.NotNil(t, first.Meta.NextCursor)

	second, err := service.List(ctx, 2, *first.Meta.NextCursor)
	require.NoError(t, err)
	require.Len(t, second.Items, 1)
	assert.Equal(t, "3 Third St", second.Items[0].FullAddress)
	assert.Nil(t, second.Meta.NextCursor)
}

func TestService_Import(t *testing.T) {
	service := newTestService()

	resp, err := service.Import(context.Background(), &models.AddressImportRequest{
		Items: []models.AddressCreateRequest{
			{FullAddress: "1 First St"},
			{FullAddress: "", ExactDeliveryTime: strPtr("14:30")},
			{FullAddress: "3 Third St", ExactDeliveryTime: strPtr("nope")},
			{FullAddress: "4 Fourth St"},
		},
	})
	require.NoError(t, err)

	require.Len(t, resp.Imported, 2, "valid items import even when others are rejected")
	assert.Equal(t, "1 First St", resp.Imported[0].FullAddress)
	assert.Equal(t, "4 Fourth St", resp.Imported[1].FullAddress)

	require.Len(t, resp.Rejected, 2)
	assert.Equal(t, "items[1].fullAddress", resp.Rejected[0].Field)
	assert.Equal(t, "items[2].exactDeliveryTime", resp.Rejected[1].Field)
}

func TestService_Import_Empty(t *testing.T) {
	service := newTestService()

	_, err := service.Import(context.Background(), &models.AddressImportRequest{})

	var validationErr *ValidationError
	require.ErrorAs(t, err, &validationErr)
}

func TestService_ListAll_PagesThroughRepository(t *testing.T) {
	repo := NewInMemoryRepository()
	service := NewService(repo)
	ctx := context.Background()

	for i := 0; i < 250; i++ {
		_, err := service.Create(ctx, &models.AddressCreateRequest{FullAddress: "12 Main St"})
		require.NoError(t, err)
	}

	all, err := service.ListAll(ctx)
	require.NoError(t, err)
	assert.Len(t, all, 250)
}
