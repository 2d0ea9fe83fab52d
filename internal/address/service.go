package address

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"time"

	"github.com/google/uuid"

	"github.com/droproute/droproute/internal/api/models"
)

// Validation constants.
const (
	MaxAddressLength      = 300
	MaxInstructionsLength = 500
	MaxImportItems        = 500
)

// timeHHMMRegex validates HH:mm format.
var timeHHMMRegex = regexp.MustCompile(`^([01]?\d|2[0-3]):[0-5]\d$`)

// Service provides address book operations.
type Service struct {
	repo Repository
}

// NewService creates a new address service.
func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

// List retrieves addresses with pagination.
func (s *Service) List(ctx context.Context, limit int, cursor string) (*models.PagedAddresses, error) {
	result, err := s.repo.List(ctx, ListOptions{Limit: limit, Cursor: cursor})
	if err != nil {
		return nil, err
	}

	items := make([]models.Address, 0, len(result.Items))
	for _, a := range result.Items {
		items = append(items, s.toAPIAddress(a))
	}

	var nextCursor *string
	if result.NextCursor != "" {
		nextCursor = &result.NextCursor
	}

	return &models.PagedAddresses{
		Items: items,
		Meta: models.PagedResponseMeta{
			Limit:      limit,
			NextCursor: nextCursor,
		},
	}, nil
}

// ListAll retrieves the full address book as domain records, paging through
// the repository. Used by route planning and the geocode warm job.
func (s *Service) ListAll(ctx context.Context) ([]*Address, error) {
	var all []*Address
	cursor := ""
	for {
		result, err := s.repo.List(ctx, ListOptions{Limit: 200, Cursor: cursor})
		if err != nil {
			return nil, err
		}
		all = append(all, result.Items...)
		if result.NextCursor == "" {
			return all, nil
		}
		cursor = result.NextCursor
	}
}

// Get retrieves an address by ID.
func (s *Service) Get(ctx context.Context, id string) (*models.Address, error) {
	addr, err := s.repo.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	result := s.toAPIAddress(addr)
	return &result, nil
}

// GetDomain retrieves an address by ID as a domain record.
func (s *Service) GetDomain(ctx context.Context, id string) (*Address, error) {
	return s.repo.Get(ctx, id)
}

// Create creates a new address.
func (s *Service) Create(ctx context.Context, input *models.AddressCreateRequest) (*models.Address, error) {
	if fieldErrors := s.validateCreateInput(input, ""); len(fieldErrors) > 0 {
		return nil, &ValidationError{Errors: fieldErrors}
	}

	addr := s.fromCreateRequest(input)
	if err := s.repo.Create(ctx, addr); err != nil {
		return nil, err
	}

	result := s.toAPIAddress(addr)
	return &result, nil
}

// Import bulk-creates addresses. Invalid items are rejected individually;
// valid items are still imported.
func (s *Service) Import(ctx context.Context, input *models.AddressImportRequest) (*models.AddressImportResponse, error) {
	if len(input.Items) == 0 {
		return nil, &ValidationError{Errors: []models.FieldError{
			{Field: "items", Message: "is required"},
		}}
	}
	if len(input.Items) > MaxImportItems {
		return nil, &ValidationError{Errors: []models.FieldError{
			{Field: "items", Message: fmt.Sprintf("must contain at most %d items", MaxImportItems)},
		}}
	}

	resp := &models.AddressImportResponse{Imported: []models.Address{}}
	for i, item := range input.Items {
		prefix := fmt.Sprintf("items[%d].", i)
		if fieldErrors := s.validateCreateInput(&item, prefix); len(fieldErrors) > 0 {
			resp.Rejected = append(resp.Rejected, fieldErrors...)
			continue
		}

		addr := s.fromCreateRequest(&item)
		if err := s.repo.Create(ctx, addr); err != nil {
			return nil, err
		}
		resp.Imported = append(resp.Imported, s.toAPIAddress(addr))
	}

	return resp, nil
}

// Update updates an existing address.
func (s *Service) Update(ctx context.Context, id string, input *models.AddressUpdateRequest) (*models.Address, error) {
	addr, err := s.repo.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	if fieldErrors := s.validateUpdateInput(input); len(fieldErrors) > 0 {
		return nil, &ValidationError{Errors: fieldErrors}
	}

	if input.FullAddress != nil {
		addr.FullAddress = *input.FullAddress
	}
	if input.TimeWindow != nil {
		addr.TimeWindow = TimeWindow(*input.TimeWindow)
	}
	if input.ExactDeliveryTime != nil {
		if *input.ExactDeliveryTime == "" {
			addr.ExactDeliveryTime = nil
		} else {
			addr.ExactDeliveryTime = input.ExactDeliveryTime
		}
	}
	if input.Priority != nil {
		addr.Priority = Priority(*input.Priority)
	}
	if input.SpecialInstructions != nil {
		addr.SpecialInstructions = input.SpecialInstructions
	}
	addr.UpdatedAt = time.Now()

	if err := s.repo.Update(ctx, addr); err != nil {
		return nil, err
	}

	result := s.toAPIAddress(addr)
	return &result, nil
}

// Delete deletes an address.
func (s *Service) Delete(ctx context.Context, id string) error {
	_, err := s.repo.Get(ctx, id)
	if err != nil {
		if errors.Is(err, ErrAddressNotFound) {
			return ErrAddressNotFound
		}
		return err
	}

	return s.repo.Delete(ctx, id)
}

// fromCreateRequest builds a domain address from a validated create request.
func (s *Service) fromCreateRequest(input *models.AddressCreateRequest) *Address {
	now := time.Now()

	addr := &Address{
		ID:                  "adr_" + uuid.New().String()[:22],
		FullAddress:         input.FullAddress,
		TimeWindow:          TimeWindowAny,
		Priority:            PriorityNormal,
		SpecialInstructions: input.SpecialInstructions,
		CreatedAt:           now,
		UpdatedAt:           now,
	}
	if input.TimeWindow != nil {
		addr.TimeWindow = TimeWindow(*input.TimeWindow)
	}
	if input.ExactDeliveryTime != nil && *input.ExactDeliveryTime != "" {
		addr.ExactDeliveryTime = input.ExactDeliveryTime
	}
	if input.Priority != nil {
		addr.Priority = Priority(*input.Priority)
	}

	return addr
}

// validateCreateInput validates the create address input.
func (s *Service) validateCreateInput(input *models.AddressCreateRequest, fieldPrefix string) []models.FieldError {
	var errs []models.FieldError

	if input.FullAddress == "" {
		errs = append(errs, models.FieldError{Field: fieldPrefix + "fullAddress", Message: "is required"})
	} else if len(input.FullAddress) > MaxAddressLength {
		errs = append(errs, models.FieldError{Field: fieldPrefix + "fullAddress", Message: "must be at most 300 characters"})
	}

	if input.TimeWindow != nil && !validTimeWindow(TimeWindow(*input.TimeWindow)) {
		errs = append(errs, models.FieldError{Field: fieldPrefix + "timeWindow", Message: "must be one of ANY, MORNING, AFTERNOON, EVENING"})
	}

	if input.ExactDeliveryTime != nil && *input.ExactDeliveryTime != "" && !timeHHMMRegex.MatchString(*input.ExactDeliveryTime) {
		errs = append(errs, models.FieldError{Field: fieldPrefix + "exactDeliveryTime", Message: "must be in HH:mm format"})
	}

	if input.Priority != nil && !validPriority(Priority(*input.Priority)) {
		errs = append(errs, models.FieldError{Field: fieldPrefix + "priority", Message: "must be one of HIGH, NORMAL, LOW"})
	}

	if input.SpecialInstructions != nil && len(*input.SpecialInstructions) > MaxInstructionsLength {
		errs = append(errs, models.FieldError{Field: fieldPrefix + "specialInstructions", Message: "must be at most 500 characters"})
	}

	return errs
}

// validateUpdateInput validates the update address input.
func (s *Service) validateUpdateInput(input *models.AddressUpdateRequest) []models.FieldError {
	var errs []models.FieldError

	if input.FullAddress != nil {
		if *input.FullAddress == "" {
			errs = append(errs, models.FieldError{Field: "fullAddress", Message: "cannot be empty"})
		} else if len(*input.FullAddress) > MaxAddressLength {
			errs = append(errs, models.FieldError{Field: "fullAddress", Message: "must be at most 300 characters"})
		}
	}

	if input.TimeWindow != nil && !validTimeWindow(TimeWindow(*input.TimeWindow)) {
		errs = append(errs, models.FieldError{Field: "timeWindow", Message: "must be one of ANY, MORNING, AFTERNOON, EVENING"})
	}

	// Empty string clears the delivery time; anything else must parse.
	if input.ExactDeliveryTime != nil && *input.ExactDeliveryTime != "" && !timeHHMMRegex.MatchString(*input.ExactDeliveryTime) {
		errs = append(errs, models.FieldError{Field: "exactDeliveryTime", Message: "must be in HH:mm format"})
	}

	if input.Priority != nil && !validPriority(Priority(*input.Priority)) {
		errs = append(errs, models.FieldError{Field: "priority", Message: "must be one of HIGH, NORMAL, LOW"})
	}

	if input.SpecialInstructions != nil && len(*input.SpecialInstructions) > MaxInstructionsLength {
		errs = append(errs, models.FieldError{Field: "specialInstructions", Message: "must be at most 500 characters"})
	}

	return errs
}

func validTimeWindow(tw TimeWindow) bool {
	switch tw {
	case TimeWindowAny, TimeWindowMorning, TimeWindowAfternoon, TimeWindowEvening:
		return true
	}
	return false
}

func validPriority(p Priority) bool {
	switch p {
	case PriorityHigh, PriorityNormal, PriorityLow:
		return true
	}
	return false
}

// toAPIAddress converts a domain Address to an API Address.
func (s *Service) toAPIAddress(a *Address) models.Address {
	return ToAPI(a)
}

// ToAPI converts a domain Address to an API Address.
func ToAPI(a *Address) models.Address {
	return models.Address{
		ID:                  a.ID,
		FullAddress:         a.FullAddress,
		TimeWindow:          models.TimeWindow(a.TimeWindow),
		ExactDeliveryTime:   a.ExactDeliveryTime,
		Priority:            models.Priority(a.Priority),
		SpecialInstructions: a.SpecialInstructions,
		CreatedAt:           models.Timestamp(a.CreatedAt),
		UpdatedAt:           models.Timestamp(a.UpdatedAt),
	}
}

// ValidationError represents validation errors.
type ValidationError struct {
	Errors []models.FieldError
}

func (e *ValidationError) Error() string {
	return "validation failed"
}
