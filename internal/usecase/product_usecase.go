package usecase

import (
	"context"
	"fmt"
	"io"
	"path/filepath"
	"time"

	"github.com/google/uuid"

	"renaix/internal/domain/entity"
	"renaix/internal/domain/repository"
	"renaix/pkg/errors"
	"renaix/pkg/utils"
)

// FileStorage stores uploaded image bytes and returns a public URL.
type FileStorage interface {
	UploadFile(ctx context.Context, reader io.Reader, objectName, contentType string) (string, error)
	DeleteFile(ctx context.Context, objectName string) error
}

type ProductUseCase struct {
	productRepo  repository.ProductRepository
	categoryRepo repository.CategoryRepository
	tagRepo      repository.TagRepository
	purchaseRepo repository.PurchaseRepository
	ledger       *ProductLedger
	storage      FileStorage
}

func NewProductUseCase(
	productRepo repository.ProductRepository,
	categoryRepo repository.CategoryRepository,
	tagRepo repository.TagRepository,
	purchaseRepo repository.PurchaseRepository,
	ledger *ProductLedger,
	storage FileStorage,
) *ProductUseCase {
	return &ProductUseCase{
		productRepo:  productRepo,
		categoryRepo: categoryRepo,
		tagRepo:      tagRepo,
		purchaseRepo: purchaseRepo,
		ledger:       ledger,
		storage:      storage,
	}
}

type CreateProductInput struct {
	Title       string
	Description string
	Price       float64
	Condition   entity.Condition
	AgeNote     string
	Location    string
	CategoryID  string
	Tags        []string
}

// Create stores a new listing as a draft. Drafts are invisible to other users
// until published through the ledger.
func (uc *ProductUseCase) Create(ctx context.Context, sellerID string, input CreateProductInput) (*entity.Product, error) {
	if input.Price < 0 {
		return nil, errors.BadRequest("Price cannot be negative", nil)
	}

	if _, err := uc.categoryRepo.GetByID(ctx, input.CategoryID); err != nil {
		return nil, err
	}

	tagIDs, err := uc.resolveTags(ctx, input.Tags)
	if err != nil {
		return nil, err
	}

	product := &entity.Product{
		SellerID:    sellerID,
		Title:       input.Title,
		Description: input.Description,
		Price:       input.Price,
		Condition:   input.Condition,
		AgeNote:     input.AgeNote,
		Location:    input.Location,
		SaleState:   entity.SaleStateDraft,
		CategoryID:  input.CategoryID,
		TagIDs:      tagIDs,
		Images:      []entity.ProductImage{},
		CreatedAt:   time.Now(),
		UpdatedAt:   time.Now(),
	}

	if err := uc.productRepo.Create(ctx, product); err != nil {
		return nil, err
	}

	return product, nil
}

type UpdateProductInput struct {
	Title       string
	Description string
	Price       *float64
	Condition   entity.Condition
	AgeNote     string
	Location    string
	CategoryID  string
	Tags        []string
}

func (uc *ProductUseCase) Update(ctx context.Context, sellerID, productID string, input UpdateProductInput) (*entity.Product, error) {
	product, err := uc.ownedProduct(ctx, sellerID, productID)
	if err != nil {
		return nil, err
	}

	if product.SaleState == entity.SaleStateSold || product.SaleState == entity.SaleStateRemoved {
		return nil, errors.InvalidTransition("Sold or removed products cannot be edited")
	}

	if input.Title != "" {
		product.Title = input.Title
	}
	if input.Description != "" {
		product.Description = input.Description
	}
	if input.Price != nil {
		if *input.Price < 0 {
			return nil, errors.BadRequest("Price cannot be negative", nil)
		}
		product.Price = *input.Price
	}
	if input.Condition != "" {
		product.Condition = input.Condition
	}
	if input.AgeNote != "" {
		product.AgeNote = input.AgeNote
	}
	if input.Location != "" {
		product.Location = input.Location
	}
	if input.CategoryID != "" {
		if _, err := uc.categoryRepo.GetByID(ctx, input.CategoryID); err != nil {
			return nil, err
		}
		product.CategoryID = input.CategoryID
	}
	if input.Tags != nil {
		tagIDs, err := uc.resolveTags(ctx, input.Tags)
		if err != nil {
			return nil, err
		}
		product.TagIDs = tagIDs
	}

	product.UpdatedAt = time.Now()

	if err := uc.productRepo.Update(ctx, product); err != nil {
		return nil, err
	}

	return product, nil
}

// AddImage uploads one image and attaches it to the listing. The first image
// becomes the primary one.
func (uc *ProductUseCase) AddImage(ctx context.Context, sellerID, productID string, reader io.Reader, filename, contentType string) (*entity.Product, error) {
	product, err := uc.ownedProduct(ctx, sellerID, productID)
	if err != nil {
		return nil, err
	}

	if product.SaleState == entity.SaleStateSold || product.SaleState == entity.SaleStateRemoved {
		return nil, errors.InvalidTransition("Sold or removed products cannot be edited")
	}

	if len(product.Images) >= entity.MaxProductImages {
		return nil, errors.BadRequest(fmt.Sprintf("A product can have at most %d images", entity.MaxProductImages), nil)
	}

	imageID := uuid.New().String()
	objectName := fmt.Sprintf("products/%s/%s%s", productID, imageID, filepath.Ext(filename))

	url, err := uc.storage.UploadFile(ctx, reader, objectName, contentType)
	if err != nil {
		return nil, err
	}

	product.Images = append(product.Images, entity.ProductImage{
		ID:           imageID,
		URL:          url,
		Primary:      len(product.Images) == 0,
		DisplayOrder: len(product.Images),
	})
	product.UpdatedAt = time.Now()

	if err := uc.productRepo.Update(ctx, product); err != nil {
		return nil, err
	}

	return product, nil
}

func (uc *ProductUseCase) RemoveImage(ctx context.Context, sellerID, productID, imageID string) (*entity.Product, error) {
	product, err := uc.ownedProduct(ctx, sellerID, productID)
	if err != nil {
		return nil, err
	}

	images := make([]entity.ProductImage, 0, len(product.Images))
	removed := false
	for _, image := range product.Images {
		if image.ID == imageID {
			removed = true
			continue
		}
		images = append(images, image)
	}
	if !removed {
		return nil, errors.NotFound("Image", nil)
	}

	// Keep a primary image as long as any image remains.
	for i := range images {
		images[i].DisplayOrder = i
		images[i].Primary = i == 0
	}

	product.Images = images
	product.UpdatedAt = time.Now()

	if err := uc.productRepo.Update(ctx, product); err != nil {
		return nil, err
	}

	return product, nil
}

// Publish puts the draft on the marketplace.
func (uc *ProductUseCase) Publish(ctx context.Context, sellerID, productID string) (*entity.Product, error) {
	if _, err := uc.ownedProduct(ctx, sellerID, productID); err != nil {
		return nil, err
	}

	return uc.ledger.Publish(ctx, productID)
}

// Remove takes the listing off the marketplace. The record is kept; products
// that ever had a purchase are never deleted outright.
func (uc *ProductUseCase) Remove(ctx context.Context, sellerID, productID string) (*entity.Product, error) {
	if _, err := uc.ownedProduct(ctx, sellerID, productID); err != nil {
		return nil, err
	}

	return uc.ledger.Remove(ctx, productID)
}

// Reserve lets the seller hold the listing for an off-platform buyer. On-platform
// purchases take the same transition through the transaction flow.
func (uc *ProductUseCase) Reserve(ctx context.Context, sellerID, productID string) (*entity.Product, error) {
	if _, err := uc.ownedProduct(ctx, sellerID, productID); err != nil {
		return nil, err
	}

	return uc.ledger.Reserve(ctx, productID)
}

// Release puts a manually reserved listing back on the marketplace. Refused
// while a purchase holds the reservation; cancelling the purchase releases it.
func (uc *ProductUseCase) Release(ctx context.Context, sellerID, productID string) (*entity.Product, error) {
	if _, err := uc.ownedProduct(ctx, sellerID, productID); err != nil {
		return nil, err
	}

	if active, err := uc.purchaseRepo.GetActiveByProductID(ctx, productID); err == nil && active != nil {
		return nil, errors.Conflict("An active purchase holds this reservation")
	}

	return uc.ledger.Release(ctx, productID)
}

// GetByID returns the product. Drafts and removed listings are only visible
// to their seller.
func (uc *ProductUseCase) GetByID(ctx context.Context, callerID, productID string) (*entity.Product, error) {
	product, err := uc.productRepo.GetByID(ctx, productID)
	if err != nil {
		return nil, err
	}

	if (product.SaleState == entity.SaleStateDraft || product.SaleState == entity.SaleStateRemoved) && product.SellerID != callerID {
		return nil, errors.NotFound("Product", nil)
	}

	return product, nil
}

type ListProductsInput struct {
	CategoryID string
	Condition  entity.Condition
	MinPrice   *float64
	MaxPrice   *float64
	Location   string
	Sort       string
	Page       int
	Limit      int
}

// List returns the public marketplace: available and reserved listings.
func (uc *ProductUseCase) List(ctx context.Context, input ListProductsInput) ([]*entity.Product, int64, error) {
	filter := uc.publicFilter(input)

	pagination := utils.NewPaginationParams(input.Page, input.Limit)

	return uc.productRepo.List(ctx, filter, input.Sort, pagination.PageSize, pagination.Offset)
}

func (uc *ProductUseCase) Search(ctx context.Context, query string, input ListProductsInput) ([]*entity.Product, int64, error) {
	if query == "" {
		return uc.List(ctx, input)
	}

	filter := uc.publicFilter(input)

	pagination := utils.NewPaginationParams(input.Page, input.Limit)

	return uc.productRepo.SearchByTitle(ctx, query, filter, pagination.PageSize, pagination.Offset)
}

// ListMine returns the seller's own listings in any state.
func (uc *ProductUseCase) ListMine(ctx context.Context, sellerID string, state entity.SaleState, page, limit int) ([]*entity.Product, int64, error) {
	pagination := utils.NewPaginationParams(page, limit)

	return uc.productRepo.ListBySellerID(ctx, sellerID, state, pagination.PageSize, pagination.Offset)
}

func (uc *ProductUseCase) publicFilter(input ListProductsInput) map[string]interface{} {
	filter := map[string]interface{}{
		"saleStates": []entity.SaleState{entity.SaleStateAvailable, entity.SaleStateReserved},
	}
	if input.CategoryID != "" {
		filter["categoryId"] = input.CategoryID
	}
	if input.Condition != "" {
		filter["condition"] = input.Condition
	}
	if input.MinPrice != nil {
		filter["minPrice"] = *input.MinPrice
	}
	if input.MaxPrice != nil {
		filter["maxPrice"] = *input.MaxPrice
	}
	if input.Location != "" {
		filter["location"] = input.Location
	}
	return filter
}

// resolveTags normalizes the requested labels and maps each to an existing
// tag, creating missing ones. Duplicate labels collapse after normalization.
func (uc *ProductUseCase) resolveTags(ctx context.Context, names []string) ([]string, error) {
	seen := map[string]bool{}
	tagIDs := make([]string, 0, len(names))

	for _, name := range names {
		normalized := entity.NormalizeTagName(name)
		if normalized == "" || seen[normalized] {
			continue
		}
		if err := entity.ValidateTagName(normalized); err != nil {
			return nil, err
		}
		seen[normalized] = true

		if len(tagIDs) >= entity.MaxProductTags {
			return nil, errors.BadRequest(fmt.Sprintf("A product can have at most %d tags", entity.MaxProductTags), nil)
		}

		tag, err := uc.tagRepo.GetByName(ctx, normalized)
		if err != nil {
			if !errors.Is(err, "NOT_FOUND") {
				return nil, err
			}
			tag = &entity.Tag{Name: normalized, Active: true, CreatedAt: time.Now()}
			if err := uc.tagRepo.Create(ctx, tag); err != nil {
				return nil, err
			}
		}
		tagIDs = append(tagIDs, tag.ID)
	}

	return tagIDs, nil
}

func (uc *ProductUseCase) ownedProduct(ctx context.Context, sellerID, productID string) (*entity.Product, error) {
	product, err := uc.productRepo.GetByID(ctx, productID)
	if err != nil {
		return nil, err
	}
	if product.SellerID != sellerID {
		return nil, errors.Forbidden("You don't own this product", nil)
	}
	return product, nil
}
