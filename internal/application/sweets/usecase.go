package sweets

import (
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/candylab/sweetshop-api/internal/application/dto"
	"github.com/candylab/sweetshop-api/internal/application/validation"
	"github.com/candylab/sweetshop-api/internal/domain"
	"github.com/candylab/sweetshop-api/internal/domain/entity"
	"github.com/candylab/sweetshop-api/internal/domain/repository"
)

// UseCase is the inventory engine: catalog CRUD plus the two
// quantity-mutating operations. Purchase and restock are delegated to the
// store's atomic conditional updates; this layer never does a
// read-check-write on quantity.
type UseCase struct {
	repo repository.SweetRepository
}

// NewUseCase builds the inventory engine over the catalog store.
func NewUseCase(repo repository.SweetRepository) *UseCase {
	return &UseCase{repo: repo}
}

// Create validates and inserts a new sweet.
func (uc *UseCase) Create(in dto.CreateSweetRequest) (*dto.SweetResponse, error) {
	input, verr := validation.ValidateCreateSweet(in)
	if verr != nil {
		return nil, verr
	}

	now := nowUTC()
	sweet := &entity.Sweet{
		ID:          uuid.New().String(),
		Name:        input.Name,
		Category:    input.Category,
		Price:       input.Price,
		Quantity:    input.Quantity,
		Description: input.Description,
		ImageURL:    input.ImageURL,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if err := uc.repo.Create(sweet); err != nil {
		return nil, err
	}
	resp := toSweetResponse(sweet)
	return &resp, nil
}

// List returns every sweet, newest first.
func (uc *UseCase) List() ([]dto.SweetResponse, error) {
	sweets, err := uc.repo.List()
	if err != nil {
		return nil, err
	}
	return toSweetResponses(sweets), nil
}

// Search runs the query builder's filter against the store. Ordering matches
// List; an empty filter returns everything.
func (uc *UseCase) Search(in dto.SearchSweetsRequest) ([]dto.SweetResponse, error) {
	sweets, err := uc.repo.Search(BuildFilter(in))
	if err != nil {
		return nil, err
	}
	return toSweetResponses(sweets), nil
}

// Update applies a partial payload: only supplied fields change, and each
// supplied field must satisfy the create constraints. The patch goes to the
// store as-is, so stock mutated by a concurrent purchase or restock is never
// overwritten by a stale copy. A malformed id is a not-found, same as an
// unknown one.
func (uc *UseCase) Update(id string, in dto.UpdateSweetRequest) (*dto.SweetResponse, error) {
	input, verr := validation.ValidateUpdateSweet(in)
	if verr != nil {
		return nil, verr
	}
	if !validID(id) {
		return nil, domain.ErrNotFound
	}

	sweet, err := uc.repo.Update(id, repository.SweetPatch{
		Name:        input.Name,
		Category:    input.Category,
		Price:       input.Price,
		Quantity:    input.Quantity,
		Description: input.Description,
		ImageURL:    input.ImageURL,
	})
	if err != nil {
		return nil, err
	}
	resp := toSweetResponse(sweet)
	return &resp, nil
}

// Delete removes a sweet permanently.
func (uc *UseCase) Delete(id string) error {
	if !validID(id) {
		return domain.ErrNotFound
	}
	return uc.repo.Delete(id)
}

// Purchase decrements stock by the requested quantity, atomically refusing
// when stock is short. Returns the updated sweet and a confirmation message.
func (uc *UseCase) Purchase(id string, in dto.QuantityRequest) (*dto.SweetResponse, string, error) {
	qty, verr := validation.ValidatePurchaseQuantity(in)
	if verr != nil {
		return nil, "", verr
	}
	if !validID(id) {
		return nil, "", domain.ErrNotFound
	}

	sweet, err := uc.repo.DecrementQuantity(id, qty)
	if err != nil {
		return nil, "", err
	}
	resp := toSweetResponse(sweet)
	return &resp, fmt.Sprintf("Successfully purchased %d %s(s)", qty, sweet.Name), nil
}

// Restock increments stock by the requested quantity; never refused for a
// positive whole number.
func (uc *UseCase) Restock(id string, in dto.QuantityRequest) (*dto.SweetResponse, string, error) {
	qty, verr := validation.ValidateRestockQuantity(in)
	if verr != nil {
		return nil, "", verr
	}
	if !validID(id) {
		return nil, "", domain.ErrNotFound
	}

	sweet, err := uc.repo.IncrementQuantity(id, qty)
	if err != nil {
		return nil, "", err
	}
	resp := toSweetResponse(sweet)
	return &resp, fmt.Sprintf("Successfully restocked %d %s(s)", qty, sweet.Name), nil
}

func nowUTC() time.Time {
	return time.Now().UTC()
}

// validID reports whether id parses as a uuid. Malformed ids are treated as
// not-found rather than a separate error class, so storage format details do
// not leak.
func validID(id string) bool {
	_, err := uuid.Parse(id)
	return err == nil
}

func toSweetResponse(s *entity.Sweet) dto.SweetResponse {
	return dto.SweetResponse{
		ID:          s.ID,
		Name:        s.Name,
		Category:    s.Category,
		Price:       s.Price,
		Quantity:    s.Quantity,
		Description: s.Description,
		ImageURL:    s.ImageURL,
		CreatedAt:   s.CreatedAt,
		UpdatedAt:   s.UpdatedAt,
	}
}

func toSweetResponses(sweets []*entity.Sweet) []dto.SweetResponse {
	out := make([]dto.SweetResponse, 0, len(sweets))
	for _, s := range sweets {
		out = append(out, toSweetResponse(s))
	}
	return out
}
