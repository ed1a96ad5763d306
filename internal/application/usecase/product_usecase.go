package usecase

import (
	"context"
	"fmt"
	"io"
	"path"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/google/uuid"
	"github.com/jhoicas/erp-saas-api/internal/application/dto"
	"github.com/jhoicas/erp-saas-api/internal/domain"
	"github.com/jhoicas/erp-saas-api/internal/domain/entity"
	"github.com/jhoicas/erp-saas-api/internal/domain/repository"
)

// MaxSKULength largo máximo del SKU, igual a la columna products.sku.
const MaxSKULength = 64

// MaxImageSize tamaño máximo de imagen de producto (5 MB).
const MaxImageSize = 5 << 20

var imageExtensions = map[string]string{
	"image/jpeg": ".jpg",
	"image/png":  ".png",
	"image/webp": ".webp",
}

// ProductUseCase casos de uso del catálogo. Stock solo cambia con movimiento registrado.
type ProductUseCase struct {
	txRunner     CatalogTxRunner
	repo         repository.ProductRepository
	categoryRepo repository.CategoryRepository
	movRepo      repository.StockMovementRepository
	storage      ObjectStorage
}

// NewProductUseCase construye el caso de uso.
func NewProductUseCase(
	txRunner CatalogTxRunner,
	repo repository.ProductRepository,
	categoryRepo repository.CategoryRepository,
	movRepo repository.StockMovementRepository,
	storage ObjectStorage,
) *ProductUseCase {
	return &ProductUseCase{
		txRunner:     txRunner,
		repo:         repo,
		categoryRepo: categoryRepo,
		movRepo:      movRepo,
		storage:      storage,
	}
}

// Create crea un producto en la empresa del caller. El stock inicial queda como ajuste en el libro.
func (uc *ProductUseCase) Create(ctx context.Context, caller domain.Caller, in dto.CreateProductRequest) (*dto.ProductResponse, error) {
	sku := strings.TrimSpace(in.SKU)
	name := strings.TrimSpace(in.Name)
	if sku == "" || name == "" {
		return nil, fmt.Errorf("%w: sku y name son obligatorios", domain.ErrInvalidInput)
	}
	if utf8.RuneCountInString(sku) > MaxSKULength {
		return nil, fmt.Errorf("%w: sku admite hasta %d caracteres", domain.ErrInvalidInput, MaxSKULength)
	}
	if in.Price.IsNegative() {
		return nil, fmt.Errorf("%w: price no puede ser negativo", domain.ErrInvalidInput)
	}
	if in.Stock < 0 || in.MinStock < 0 {
		return nil, fmt.Errorf("%w: stock y minStock no pueden ser negativos", domain.ErrInvalidInput)
	}
	category, err := uc.resolveCategory(ctx, caller.CompanyID, in.CategoryID)
	if err != nil {
		return nil, err
	}

	now := time.Now()
	product := &entity.Product{
		ID:          uuid.New().String(),
		CompanyID:   caller.CompanyID,
		SKU:         sku,
		Name:        name,
		Description: in.Description,
		Price:       in.Price,
		MinStock:    in.MinStock,
		ImageURL:    in.ImageURL,
		IsActive:    true,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if category != nil {
		product.CategoryID = category.ID
		product.CategoryName = category.Name
	}

	err = uc.txRunner.RunCatalog(ctx, func(productRepo repository.ProductRepository, movRepo repository.StockMovementRepository) error {
		existing, err := productRepo.GetByCompanyAndSKU(ctx, caller.CompanyID, sku)
		if err != nil {
			return err
		}
		if existing != nil {
			return fmt.Errorf("%w: el SKU %s ya existe", domain.ErrDuplicate, sku)
		}
		if err := productRepo.Create(ctx, product); err != nil {
			return err
		}
		if in.Stock == 0 {
			return nil
		}
		stockAfter, err := productRepo.AdjustStock(ctx, caller.CompanyID, product.ID, in.Stock)
		if err != nil {
			return err
		}
		product.Stock = stockAfter
		return movRepo.Create(ctx, adjustmentMovement(caller, product.ID, in.Stock, stockAfter, now))
	})
	if err != nil {
		return nil, err
	}
	return toProductResponse(product), nil
}

// GetByID obtiene un producto de la empresa del caller.
func (uc *ProductUseCase) GetByID(ctx context.Context, caller domain.Caller, id string) (*dto.ProductResponse, error) {
	product, err := uc.repo.GetByID(ctx, caller.CompanyID, id)
	if err != nil {
		return nil, err
	}
	if product == nil {
		return nil, domain.ErrNotFound
	}
	return toProductResponse(product), nil
}

// List lista productos con búsqueda, filtro de categoría y paginación.
func (uc *ProductUseCase) List(ctx context.Context, caller domain.Caller, q dto.ProductListQuery) (*dto.Paginated[dto.ProductResponse], error) {
	page := dto.PageQuery{Page: q.Page, Limit: q.Limit}
	page.Normalize()
	list, total, err := uc.repo.List(ctx, caller.CompanyID, repository.ProductFilter{
		Search:          strings.TrimSpace(q.Search),
		CategoryID:      q.CategoryID,
		IncludeInactive: q.IncludeInactive,
		Limit:           page.Limit,
		Offset:          page.Offset(),
	})
	if err != nil {
		return nil, err
	}
	return &dto.Paginated[dto.ProductResponse]{
		Data: toProductResponses(list),
		Meta: dto.NewPageMeta(total, page.Page, page.Limit),
	}, nil
}

// ListLowStock lista productos activos con stock en o por debajo del mínimo.
func (uc *ProductUseCase) ListLowStock(ctx context.Context, caller domain.Caller, limit int) ([]dto.ProductResponse, error) {
	if limit <= 0 || limit > 200 {
		limit = 50
	}
	list, err := uc.repo.ListLowStock(ctx, caller.CompanyID, limit)
	if err != nil {
		return nil, err
	}
	return toProductResponses(list), nil
}

// Update actualiza un producto. Un Stock distinto al actual se registra como ajuste.
func (uc *ProductUseCase) Update(ctx context.Context, caller domain.Caller, id string, in dto.UpdateProductRequest) (*dto.ProductResponse, error) {
	if in.Price != nil && in.Price.IsNegative() {
		return nil, fmt.Errorf("%w: price no puede ser negativo", domain.ErrInvalidInput)
	}
	if (in.Stock != nil && *in.Stock < 0) || (in.MinStock != nil && *in.MinStock < 0) {
		return nil, fmt.Errorf("%w: stock y minStock no pueden ser negativos", domain.ErrInvalidInput)
	}
	var category *entity.Category
	if in.CategoryID != nil && *in.CategoryID != "" {
		c, err := uc.resolveCategory(ctx, caller.CompanyID, *in.CategoryID)
		if err != nil {
			return nil, err
		}
		category = c
	}

	var product *entity.Product
	err := uc.txRunner.RunCatalog(ctx, func(productRepo repository.ProductRepository, movRepo repository.StockMovementRepository) error {
		p, err := productRepo.GetForUpdate(ctx, caller.CompanyID, id)
		if err != nil {
			return err
		}
		if p == nil {
			return domain.ErrNotFound
		}
		now := time.Now()
		if in.Name != nil {
			name := strings.TrimSpace(*in.Name)
			if name == "" {
				return fmt.Errorf("%w: name no puede estar vacío", domain.ErrInvalidInput)
			}
			p.Name = name
		}
		if in.Description != nil {
			p.Description = *in.Description
		}
		if in.Price != nil {
			p.Price = *in.Price
		}
		if in.MinStock != nil {
			p.MinStock = *in.MinStock
		}
		if in.ImageURL != nil {
			p.ImageURL = *in.ImageURL
		}
		if in.IsActive != nil {
			p.IsActive = *in.IsActive
		}
		if in.CategoryID != nil {
			p.CategoryID, p.CategoryName = "", ""
			if category != nil {
				p.CategoryID, p.CategoryName = category.ID, category.Name
			}
		}
		p.UpdatedAt = now
		if err := productRepo.Update(ctx, p); err != nil {
			return err
		}
		if in.Stock != nil && *in.Stock != p.Stock {
			delta := *in.Stock - p.Stock
			stockAfter, err := productRepo.AdjustStock(ctx, caller.CompanyID, p.ID, delta)
			if err != nil {
				return err
			}
			p.Stock = stockAfter
			if err := movRepo.Create(ctx, adjustmentMovement(caller, p.ID, delta, stockAfter, now)); err != nil {
				return err
			}
		}
		product = p
		return nil
	})
	if err != nil {
		return nil, err
	}
	return toProductResponse(product), nil
}

// Delete desactiva el producto (isActive=false). Las órdenes históricas lo siguen referenciando.
func (uc *ProductUseCase) Delete(ctx context.Context, caller domain.Caller, id string) error {
	return uc.repo.Deactivate(ctx, caller.CompanyID, id)
}

// Movements devuelve el libro de stock de un producto de la empresa del caller.
func (uc *ProductUseCase) Movements(ctx context.Context, caller domain.Caller, id string, page dto.PageQuery) ([]dto.StockMovementResponse, error) {
	product, err := uc.repo.GetByID(ctx, caller.CompanyID, id)
	if err != nil {
		return nil, err
	}
	if product == nil {
		return nil, domain.ErrNotFound
	}
	page.Normalize()
	list, err := uc.movRepo.ListByProduct(ctx, caller.CompanyID, id, page.Limit, page.Offset())
	if err != nil {
		return nil, err
	}
	out := make([]dto.StockMovementResponse, 0, len(list))
	for _, m := range list {
		out = append(out, dto.StockMovementResponse{
			ID:         m.ID,
			OrderID:    m.OrderID,
			Type:       m.Type,
			Quantity:   m.Quantity,
			StockAfter: m.StockAfter,
			CreatedBy:  m.CreatedBy,
			CreatedAt:  m.CreatedAt,
		})
	}
	return out, nil
}

// UploadImage valida y guarda una imagen de producto bajo el prefijo de la empresa.
func (uc *ProductUseCase) UploadImage(ctx context.Context, caller domain.Caller, contentType string, size int64, body io.Reader) (*dto.UploadResponse, error) {
	if uc.storage == nil {
		return nil, fmt.Errorf("product: almacenamiento de archivos no configurado")
	}
	ext, ok := imageExtensions[strings.ToLower(contentType)]
	if !ok {
		return nil, fmt.Errorf("%w: solo se aceptan imágenes jpeg, png o webp", domain.ErrInvalidInput)
	}
	if size <= 0 || size > MaxImageSize {
		return nil, fmt.Errorf("%w: la imagen debe pesar entre 1 byte y 5 MB", domain.ErrInvalidInput)
	}
	key := path.Join("products", caller.CompanyID, uuid.New().String()+ext)
	url, err := uc.storage.Upload(ctx, key, body, size, contentType)
	if err != nil {
		return nil, fmt.Errorf("product: subir imagen: %w", err)
	}
	return &dto.UploadResponse{URL: url}, nil
}

// resolveCategory valida que la categoría exista y sea de la empresa; "" = sin categoría.
func (uc *ProductUseCase) resolveCategory(ctx context.Context, companyID, categoryID string) (*entity.Category, error) {
	if categoryID == "" {
		return nil, nil
	}
	c, err := uc.categoryRepo.GetByID(ctx, companyID, categoryID)
	if err != nil {
		return nil, err
	}
	if c == nil || !c.IsActive {
		return nil, fmt.Errorf("%w: categoría %s", domain.ErrNotFound, categoryID)
	}
	return c, nil
}

func adjustmentMovement(caller domain.Caller, productID string, delta, stockAfter int, at time.Time) *entity.StockMovement {
	return &entity.StockMovement{
		ID:         uuid.New().String(),
		CompanyID:  caller.CompanyID,
		ProductID:  productID,
		Type:       entity.MovementTypeAdjustment,
		Quantity:   delta,
		StockAfter: stockAfter,
		CreatedBy:  caller.UserID,
		CreatedAt:  at,
	}
}

func toProductResponse(p *entity.Product) *dto.ProductResponse {
	if p == nil {
		return nil
	}
	return &dto.ProductResponse{
		ID:           p.ID,
		SKU:          p.SKU,
		Name:         p.Name,
		Description:  p.Description,
		Price:        p.Price,
		Stock:        p.Stock,
		MinStock:     p.MinStock,
		LowStock:     p.IsLowStock(),
		CategoryID:   p.CategoryID,
		CategoryName: p.CategoryName,
		ImageURL:     p.ImageURL,
		IsActive:     p.IsActive,
		CreatedAt:    p.CreatedAt,
		UpdatedAt:    p.UpdatedAt,
	}
}

func toProductResponses(list []*entity.Product) []dto.ProductResponse {
	out := make([]dto.ProductResponse, 0, len(list))
	for _, p := range list {
		out = append(out, *toProductResponse(p))
	}
	return out
}
