package usecase

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/jhoicas/tienda-pos/internal/application/dto"
	"github.com/jhoicas/tienda-pos/internal/domain"
	"github.com/jhoicas/tienda-pos/internal/domain/entity"
	"github.com/jhoicas/tienda-pos/internal/domain/repository"
)

// ProductAlerts re-evalúa las alertas de un producto tras un cambio (lo implementa *alerts.Evaluator).
type ProductAlerts interface {
	EvaluateProductAlerts(ctx context.Context, product *entity.Product) (*entity.Alert, bool, error)
}

// ProductEditTx abre la transacción en la que se edita un producto (postgres.TxRunner, memory.Store).
type ProductEditTx interface {
	RunProductEdit(ctx context.Context, fn func(products repository.ProductRepository) error) error
}

// ProductUseCase casos de uso CRUD para productos. Crear o actualizar dispara la evaluación de alertas.
type ProductUseCase struct {
	repo   repository.ProductRepository
	tx     ProductEditTx
	alerts ProductAlerts
	log    zerolog.Logger
}

// NewProductUseCase construye el caso de uso.
func NewProductUseCase(repo repository.ProductRepository, tx ProductEditTx, alerts ProductAlerts, log zerolog.Logger) *ProductUseCase {
	return &ProductUseCase{repo: repo, tx: tx, alerts: alerts, log: log}
}

// Create crea un nuevo producto. El código de barras, si viene, debe ser único.
func (uc *ProductUseCase) Create(ctx context.Context, in dto.CreateProductRequest) (*dto.ProductResponse, error) {
	in.Name = strings.TrimSpace(in.Name)
	in.Barcode = strings.TrimSpace(in.Barcode)
	if in.Name == "" || in.Quantity < 0 || in.MinStockLevel < 0 ||
		in.Price.IsNegative() || in.CostPrice.IsNegative() {
		return nil, domain.ErrInvalidInput
	}
	if in.Barcode != "" {
		existing, err := uc.repo.GetByBarcode(ctx, in.Barcode)
		if err != nil {
			return nil, err
		}
		if existing != nil {
			return nil, domain.ErrDuplicate
		}
	}
	now := time.Now()
	product := &entity.Product{
		ID:            uuid.New().String(),
		Name:          in.Name,
		Barcode:       in.Barcode,
		Category:      strings.TrimSpace(in.Category),
		SupplierID:    in.SupplierID,
		Price:         in.Price,
		CostPrice:     in.CostPrice,
		Quantity:      in.Quantity,
		MinStockLevel: in.MinStockLevel,
		ExpiryDate:    in.ExpiryDate,
		CreatedAt:     now,
		UpdatedAt:     now,
	}
	if err := uc.repo.Create(ctx, product); err != nil {
		return nil, err
	}
	uc.evaluate(ctx, product)
	return toProductResponse(product), nil
}

// GetByID obtiene un producto por ID. nil si no existe.
func (uc *ProductUseCase) GetByID(ctx context.Context, id string) (*dto.ProductResponse, error) {
	product, err := uc.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if product == nil {
		return nil, nil
	}
	return toProductResponse(product), nil
}

// GetByBarcode busca un producto por código de barras (lector del punto de venta). nil si no existe.
func (uc *ProductUseCase) GetByBarcode(ctx context.Context, barcode string) (*dto.ProductResponse, error) {
	product, err := uc.repo.GetByBarcode(ctx, strings.TrimSpace(barcode))
	if err != nil {
		return nil, err
	}
	if product == nil {
		return nil, nil
	}
	return toProductResponse(product), nil
}

// Update actualización parcial. nil si el producto no existe.
// La fila se relee bloqueada dentro de la transacción: una venta concurrente no se pierde
// y quantity solo cambia si el request la trae.
func (uc *ProductUseCase) Update(ctx context.Context, id string, in dto.UpdateProductRequest) (*dto.ProductResponse, error) {
	var product *entity.Product
	err := uc.tx.RunProductEdit(ctx, func(products repository.ProductRepository) error {
		current, err := products.GetForUpdate(ctx, id)
		if err != nil || current == nil {
			return err
		}
		if err := applyProductChanges(ctx, products, current, in); err != nil {
			return err
		}
		current.UpdatedAt = time.Now()
		if err := products.Update(ctx, current); err != nil {
			return err
		}
		product = current
		return nil
	})
	if err != nil {
		return nil, err
	}
	if product == nil {
		return nil, nil
	}
	uc.evaluate(ctx, product)
	return toProductResponse(product), nil
}

func applyProductChanges(ctx context.Context, products repository.ProductRepository, product *entity.Product, in dto.UpdateProductRequest) error {
	if in.Name != nil {
		name := strings.TrimSpace(*in.Name)
		if name == "" {
			return domain.ErrInvalidInput
		}
		product.Name = name
	}
	if in.Barcode != nil {
		barcode := strings.TrimSpace(*in.Barcode)
		if barcode != "" && barcode != product.Barcode {
			existing, err := products.GetByBarcode(ctx, barcode)
			if err != nil {
				return err
			}
			if existing != nil && existing.ID != product.ID {
				return domain.ErrDuplicate
			}
		}
		product.Barcode = barcode
	}
	if in.Category != nil {
		product.Category = strings.TrimSpace(*in.Category)
	}
	if in.SupplierID != nil {
		product.SupplierID = *in.SupplierID
	}
	if in.Price != nil {
		if in.Price.IsNegative() {
			return domain.ErrInvalidInput
		}
		product.Price = *in.Price
	}
	if in.CostPrice != nil {
		if in.CostPrice.IsNegative() {
			return domain.ErrInvalidInput
		}
		product.CostPrice = *in.CostPrice
	}
	if in.Quantity != nil {
		if *in.Quantity < 0 {
			return domain.ErrInvalidInput
		}
		product.Quantity = *in.Quantity
	}
	if in.MinStockLevel != nil {
		if *in.MinStockLevel < 0 {
			return domain.ErrInvalidInput
		}
		product.MinStockLevel = *in.MinStockLevel
	}
	if in.ClearExpiry {
		product.ExpiryDate = nil
	} else if in.ExpiryDate != nil {
		product.ExpiryDate = in.ExpiryDate
	}
	return nil
}

// List lista productos con búsqueda por nombre/código, filtro por categoría y paginación.
func (uc *ProductUseCase) List(ctx context.Context, search, category string, page dto.PageRequest) (*dto.ProductListResponse, error) {
	page.Normalize()
	list, total, err := uc.repo.List(ctx, repository.ProductFilter{
		Search:   strings.TrimSpace(search),
		Category: category,
		Limit:    page.Limit,
		Offset:   page.Offset,
	})
	if err != nil {
		return nil, err
	}
	items := make([]dto.ProductResponse, 0, len(list))
	for _, p := range list {
		items = append(items, *toProductResponse(p))
	}
	return &dto.ProductListResponse{
		Items: items,
		Page:  dto.PageResponse{Limit: page.Limit, Offset: page.Offset, Total: total},
	}, nil
}

// Delete elimina un producto. Las ventas históricas conservan nombre y precio en sus ítems.
func (uc *ProductUseCase) Delete(ctx context.Context, id string) error {
	product, err := uc.repo.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if product == nil {
		return domain.ErrNotFound
	}
	return uc.repo.Delete(ctx, id)
}

func (uc *ProductUseCase) evaluate(ctx context.Context, p *entity.Product) {
	if uc.alerts == nil {
		return
	}
	if _, _, err := uc.alerts.EvaluateProductAlerts(ctx, p); err != nil {
		uc.log.Warn().Err(err).Str("product_id", p.ID).Msg("evaluación de alertas del producto")
	}
}

func toProductResponse(p *entity.Product) *dto.ProductResponse {
	if p == nil {
		return nil
	}
	return &dto.ProductResponse{
		ID:            p.ID,
		Name:          p.Name,
		Barcode:       p.Barcode,
		Category:      p.Category,
		SupplierID:    p.SupplierID,
		Price:         p.Price,
		CostPrice:     p.CostPrice,
		Quantity:      p.Quantity,
		MinStockLevel: p.MinStockLevel,
		ExpiryDate:    p.ExpiryDate,
		CreatedAt:     p.CreatedAt,
		UpdatedAt:     p.UpdatedAt,
	}
}
