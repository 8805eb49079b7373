package handler

import (
	"strconv"

	"github.com/labstack/echo/v4"

	"renaix/internal/domain/entity"
	"renaix/internal/usecase"
	"renaix/pkg/errors"
	"renaix/pkg/response"
	"renaix/pkg/utils"
)

type ProductHandler struct {
	productUseCase *usecase.ProductUseCase
}

func NewProductHandler(productUseCase *usecase.ProductUseCase) *ProductHandler {
	return &ProductHandler{
		productUseCase: productUseCase,
	}
}

type createProductRequest struct {
	Title       string   `json:"title" validate:"required,min=3"`
	Description string   `json:"description"`
	Price       float64  `json:"price" validate:"gte=0"`
	Condition   string   `json:"condition" validate:"required,oneof=new like_new good fair needs_repair"`
	AgeNote     string   `json:"ageNote"`
	Location    string   `json:"location"`
	CategoryID  string   `json:"categoryId" validate:"required"`
	Tags        []string `json:"tags"`
}

type updateProductRequest struct {
	Title       string   `json:"title" validate:"omitempty,min=3"`
	Description string   `json:"description"`
	Price       *float64 `json:"price" validate:"omitempty,gte=0"`
	Condition   string   `json:"condition" validate:"omitempty,oneof=new like_new good fair needs_repair"`
	AgeNote     string   `json:"ageNote"`
	Location    string   `json:"location"`
	CategoryID  string   `json:"categoryId"`
	Tags        []string `json:"tags"`
}

func (h *ProductHandler) Create(c echo.Context) error {
	uid := c.Get("uid").(string)

	var req createProductRequest
	if err := c.Bind(&req); err != nil {
		return response.Error(c, errors.BadRequest("Invalid request body", err))
	}

	if err := c.Validate(&req); err != nil {
		return response.Error(c, err)
	}

	product, err := h.productUseCase.Create(c.Request().Context(), uid, usecase.CreateProductInput{
		Title:       req.Title,
		Description: req.Description,
		Price:       req.Price,
		Condition:   entity.Condition(req.Condition),
		AgeNote:     req.AgeNote,
		Location:    req.Location,
		CategoryID:  req.CategoryID,
		Tags:        req.Tags,
	})
	if err != nil {
		return response.Error(c, err)
	}

	return response.Created(c, product)
}

func (h *ProductHandler) Update(c echo.Context) error {
	uid := c.Get("uid").(string)
	productID := c.Param("id")

	var req updateProductRequest
	if err := c.Bind(&req); err != nil {
		return response.Error(c, errors.BadRequest("Invalid request body", err))
	}

	if err := c.Validate(&req); err != nil {
		return response.Error(c, err)
	}

	product, err := h.productUseCase.Update(c.Request().Context(), uid, productID, usecase.UpdateProductInput{
		Title:       req.Title,
		Description: req.Description,
		Price:       req.Price,
		Condition:   entity.Condition(req.Condition),
		AgeNote:     req.AgeNote,
		Location:    req.Location,
		CategoryID:  req.CategoryID,
		Tags:        req.Tags,
	})
	if err != nil {
		return response.Error(c, err)
	}

	return response.Success(c, product)
}

// UploadImage attaches a listing photo. The first image uploaded becomes the
// primary one.
func (h *ProductHandler) UploadImage(c echo.Context) error {
	uid := c.Get("uid").(string)
	productID := c.Param("id")

	file, err := c.FormFile("image")
	if err != nil {
		return response.Error(c, errors.BadRequest("Image file is required", err))
	}

	src, err := file.Open()
	if err != nil {
		return response.Error(c, errors.BadRequest("Failed to read uploaded file", err))
	}
	defer src.Close()

	contentType := file.Header.Get("Content-Type")

	product, err := h.productUseCase.AddImage(c.Request().Context(), uid, productID, src, file.Filename, contentType)
	if err != nil {
		return response.Error(c, err)
	}

	return response.Created(c, product)
}

func (h *ProductHandler) RemoveImage(c echo.Context) error {
	uid := c.Get("uid").(string)
	productID := c.Param("id")
	imageID := c.Param("imageId")

	product, err := h.productUseCase.RemoveImage(c.Request().Context(), uid, productID, imageID)
	if err != nil {
		return response.Error(c, err)
	}

	return response.Success(c, product)
}

func (h *ProductHandler) Publish(c echo.Context) error {
	uid := c.Get("uid").(string)
	productID := c.Param("id")

	product, err := h.productUseCase.Publish(c.Request().Context(), uid, productID)
	if err != nil {
		return response.Error(c, err)
	}

	return response.Success(c, product)
}

func (h *ProductHandler) Reserve(c echo.Context) error {
	uid := c.Get("uid").(string)
	productID := c.Param("id")

	product, err := h.productUseCase.Reserve(c.Request().Context(), uid, productID)
	if err != nil {
		return response.Error(c, err)
	}

	return response.Success(c, product)
}

func (h *ProductHandler) Release(c echo.Context) error {
	uid := c.Get("uid").(string)
	productID := c.Param("id")

	product, err := h.productUseCase.Release(c.Request().Context(), uid, productID)
	if err != nil {
		return response.Error(c, err)
	}

	return response.Success(c, product)
}

func (h *ProductHandler) Remove(c echo.Context) error {
	uid := c.Get("uid").(string)
	productID := c.Param("id")

	product, err := h.productUseCase.Remove(c.Request().Context(), uid, productID)
	if err != nil {
		return response.Error(c, err)
	}

	return response.Success(c, product)
}

// GetByID serves the public listing detail. The uid is optional here: owners
// can see their drafts, everyone else gets a not found.
func (h *ProductHandler) GetByID(c echo.Context) error {
	uid, _ := c.Get("uid").(string)
	productID := c.Param("id")

	product, err := h.productUseCase.GetByID(c.Request().Context(), uid, productID)
	if err != nil {
		return response.Error(c, err)
	}

	return response.Success(c, product)
}

func (h *ProductHandler) List(c echo.Context) error {
	input := h.listInput(c)

	products, total, err := h.productUseCase.List(c.Request().Context(), input)
	if err != nil {
		return response.Error(c, err)
	}

	return response.Paginated(c, products, total, input.Page, input.Limit)
}

func (h *ProductHandler) Search(c echo.Context) error {
	query := c.QueryParam("q")
	input := h.listInput(c)

	products, total, err := h.productUseCase.Search(c.Request().Context(), query, input)
	if err != nil {
		return response.Error(c, err)
	}

	return response.Paginated(c, products, total, input.Page, input.Limit)
}

func (h *ProductHandler) ListMine(c echo.Context) error {
	uid := c.Get("uid").(string)
	state := entity.SaleState(c.QueryParam("status"))

	pagination := utils.GetPaginationParams(c)

	products, total, err := h.productUseCase.ListMine(c.Request().Context(), uid, state, pagination.Page, pagination.PageSize)
	if err != nil {
		return response.Error(c, err)
	}

	return response.Paginated(c, products, total, pagination.Page, pagination.PageSize)
}

func (h *ProductHandler) listInput(c echo.Context) usecase.ListProductsInput {
	pagination := utils.GetPaginationParams(c)

	input := usecase.ListProductsInput{
		CategoryID: c.QueryParam("categoryId"),
		Condition:  entity.Condition(c.QueryParam("condition")),
		Location:   c.QueryParam("location"),
		Sort:       c.QueryParam("sort"),
		Page:       pagination.Page,
		Limit:      pagination.PageSize,
	}

	if raw := c.QueryParam("minPrice"); raw != "" {
		if v, err := strconv.ParseFloat(raw, 64); err == nil {
			input.MinPrice = &v
		}
	}
	if raw := c.QueryParam("maxPrice"); raw != "" {
		if v, err := strconv.ParseFloat(raw, 64); err == nil {
			input.MaxPrice = &v
		}
	}

	return input
}
