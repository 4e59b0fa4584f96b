package service

import (
	"context"
	"strings"

	"github.com/arredo/backoffice-api/internal/domain"
	"github.com/arredo/backoffice-api/internal/mapper"
	"github.com/arredo/backoffice-api/internal/repository"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// CatalogService manages role costs and the product and service category lists
type CatalogService struct {
	roleRepo            *repository.RoleCostRepository
	productCategoryRepo *repository.ProductCategoryRepository
	serviceCategoryRepo *repository.ServiceCategoryRepository
	logger              *zap.Logger
}

func NewCatalogService(
	roleRepo *repository.RoleCostRepository,
	productCategoryRepo *repository.ProductCategoryRepository,
	serviceCategoryRepo *repository.ServiceCategoryRepository,
	logger *zap.Logger,
) *CatalogService {
	return &CatalogService{
		roleRepo:            roleRepo,
		productCategoryRepo: productCategoryRepo,
		serviceCategoryRepo: serviceCategoryRepo,
		logger:              logger,
	}
}

// Role costs

func (s *CatalogService) ListRoles(ctx context.Context) ([]domain.RoleCostDTO, error) {
	roles, err := s.roleRepo.List(ctx)
	if err != nil {
		return nil, translate(err, "list roles")
	}
	dtos := make([]domain.RoleCostDTO, len(roles))
	for i := range roles {
		dtos[i] = mapper.ToRoleCostDTO(&roles[i])
	}
	return dtos, nil
}

func (s *CatalogService) GetRole(ctx context.Context, id uuid.UUID) (*domain.RoleCostDTO, error) {
	role, err := s.roleRepo.GetByID(ctx, id)
	if err != nil {
		return nil, translate(err, "get role")
	}
	dto := mapper.ToRoleCostDTO(role)
	return &dto, nil
}

func (s *CatalogService) CreateRole(ctx context.Context, req *domain.RoleCostRequest) (*domain.RoleCostDTO, error) {
	role := &domain.HourlyRoleCost{
		Name:       strings.TrimSpace(req.Name),
		HourlyRate: decimal.NewFromFloat(req.HourlyRate),
	}
	if err := s.roleRepo.Create(ctx, role); err != nil {
		return nil, translate(err, "create role")
	}
	dto := mapper.ToRoleCostDTO(role)
	return &dto, nil
}

func (s *CatalogService) UpdateRole(ctx context.Context, id uuid.UUID, req *domain.RoleCostRequest) (*domain.RoleCostDTO, error) {
	role, err := s.roleRepo.GetByID(ctx, id)
	if err != nil {
		return nil, translate(err, "get role")
	}
	role.Name = strings.TrimSpace(req.Name)
	role.HourlyRate = decimal.NewFromFloat(req.HourlyRate)
	if err := s.roleRepo.Update(ctx, role); err != nil {
		return nil, translate(err, "update role")
	}
	dto := mapper.ToRoleCostDTO(role)
	return &dto, nil
}

// DeleteRole removes the role. Activities that used it keep their hours but cost nothing.
func (s *CatalogService) DeleteRole(ctx context.Context, id uuid.UUID) error {
	if err := s.roleRepo.Delete(ctx, id); err != nil {
		return translate(err, "delete role")
	}
	s.logger.Info("role cost deleted", zap.String("role_id", id.String()))
	return nil
}

// Product categories

func (s *CatalogService) ListProductCategories(ctx context.Context) ([]domain.CategoryDTO, error) {
	categories, err := s.productCategoryRepo.List(ctx)
	if err != nil {
		return nil, translate(err, "list product categories")
	}
	dtos := make([]domain.CategoryDTO, len(categories))
	for i := range categories {
		dtos[i] = mapper.ToProductCategoryDTO(&categories[i])
	}
	return dtos, nil
}

func (s *CatalogService) CreateProductCategory(ctx context.Context, req *domain.CategoryRequest) (*domain.CategoryDTO, error) {
	c := &domain.ProductCategory{Name: strings.TrimSpace(req.Name)}
	if err := s.productCategoryRepo.Create(ctx, c); err != nil {
		return nil, translate(err, "create product category")
	}
	dto := mapper.ToProductCategoryDTO(c)
	return &dto, nil
}

func (s *CatalogService) UpdateProductCategory(ctx context.Context, id uuid.UUID, req *domain.CategoryRequest) (*domain.CategoryDTO, error) {
	c, err := s.productCategoryRepo.GetByID(ctx, id)
	if err != nil {
		return nil, translate(err, "get product category")
	}
	c.Name = strings.TrimSpace(req.Name)
	if err := s.productCategoryRepo.Update(ctx, c); err != nil {
		return nil, translate(err, "update product category")
	}
	dto := mapper.ToProductCategoryDTO(c)
	return &dto, nil
}

// DeleteProductCategory refuses categories that sales or budgets reference
func (s *CatalogService) DeleteProductCategory(ctx context.Context, id uuid.UUID) error {
	used, err := s.productCategoryRepo.IsReferenced(ctx, id)
	if err != nil {
		return translate(err, "check product category usage")
	}
	if used {
		return ErrCategoryInUse
	}
	return translate(s.productCategoryRepo.Delete(ctx, id), "delete product category")
}

// Service categories

func (s *CatalogService) ListServiceCategories(ctx context.Context) ([]domain.CategoryDTO, error) {
	categories, err := s.serviceCategoryRepo.List(ctx)
	if err != nil {
		return nil, translate(err, "list service categories")
	}
	dtos := make([]domain.CategoryDTO, len(categories))
	for i := range categories {
		dtos[i] = mapper.ToServiceCategoryDTO(&categories[i])
	}
	return dtos, nil
}

func (s *CatalogService) CreateServiceCategory(ctx context.Context, req *domain.CategoryRequest) (*domain.CategoryDTO, error) {
	c := &domain.ServiceCategory{Name: strings.TrimSpace(req.Name)}
	if err := s.serviceCategoryRepo.Create(ctx, c); err != nil {
		return nil, translate(err, "create service category")
	}
	dto := mapper.ToServiceCategoryDTO(c)
	return &dto, nil
}

func (s *CatalogService) UpdateServiceCategory(ctx context.Context, id uuid.UUID, req *domain.CategoryRequest) (*domain.CategoryDTO, error) {
	c, err := s.serviceCategoryRepo.GetByID(ctx, id)
	if err != nil {
		return nil, translate(err, "get service category")
	}
	c.Name = strings.TrimSpace(req.Name)
	if err := s.serviceCategoryRepo.Update(ctx, c); err != nil {
		return nil, translate(err, "update service category")
	}
	dto := mapper.ToServiceCategoryDTO(c)
	return &dto, nil
}

func (s *CatalogService) DeleteServiceCategory(ctx context.Context, id uuid.UUID) error {
	return translate(s.serviceCategoryRepo.Delete(ctx, id), "delete service category")
}
