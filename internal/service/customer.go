package service

import (
	"context"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"github.com/umalmyha/customer-records/internal/cache"
	"github.com/umalmyha/customer-records/internal/errors"
	"github.com/umalmyha/customer-records/internal/model"
	"github.com/umalmyha/customer-records/internal/repository"
)

// CustomerService represents customer service behavior
type CustomerService interface {
	FindByID(context.Context, string) (*model.Customer, error)
	FindByEmail(context.Context, string) (*model.Customer, error)
	FindByPhone(context.Context, string) (*model.Customer, error)
	Search(ctx context.Context, filter model.CustomerFilter, limit, page int) (*model.CustomerPage, error)
	Create(context.Context, *model.Customer) (*model.Customer, error)
	Patch(context.Context, string, model.CustomerPatch) (*model.Customer, error)
	DeleteByID(context.Context, string) error
}

type customerService struct {
	customerRps   repository.CustomerRepository
	customerCache cache.CustomerCacheRepository
}

// NewCustomerService builds customer service
func NewCustomerService(customerRps repository.CustomerRepository, customerCache cache.CustomerCacheRepository) CustomerService {
	return &customerService{customerRps: customerRps, customerCache: customerCache}
}

func (s *customerService) FindByID(ctx context.Context, id string) (*model.Customer, error) {
	c, err := s.customerCache.FindByID(ctx, id)
	if err != nil {
		logrus.Warnf("failed to read customer %s from cache, falling back to primary datasource - %v", id, err)
	} else if c != nil {
		return c, nil
	}

	c, err = s.customerRps.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if c == nil {
		return nil, errors.NewCustomerNotFoundErr(id)
	}

	if err := s.customerCache.Create(ctx, c); err != nil {
		logrus.Warnf("failed to cache customer %s - %v", id, err)
	}
	return c, nil
}

func (s *customerService) FindByEmail(ctx context.Context, email string) (*model.Customer, error) {
	return s.customerRps.FindByEmail(ctx, email)
}

func (s *customerService) FindByPhone(ctx context.Context, phone string) (*model.Customer, error) {
	return s.customerRps.FindByPhone(ctx, phone)
}

func (s *customerService) Search(ctx context.Context, filter model.CustomerFilter, limit, page int) (*model.CustomerPage, error) {
	offset := (page - 1) * limit

	customers, err := s.customerRps.FindAll(ctx, filter, limit, offset)
	if err != nil {
		return nil, err
	}

	count, err := s.customerRps.Count(ctx, filter)
	if err != nil {
		return nil, err
	}

	return &model.CustomerPage{Customers: customers, Count: count}, nil
}

func (s *customerService) Create(ctx context.Context, c *model.Customer) (*model.Customer, error) {
	c.ID = uuid.NewString()
	if c.Gender == nil {
		gender := model.DefaultGender
		c.Gender = &gender
	}

	if err := s.customerRps.Create(ctx, c); err != nil {
		return nil, err
	}
	return c, nil
}

func (s *customerService) Patch(ctx context.Context, id string, patch model.CustomerPatch) (*model.Customer, error) {
	if err := s.customerCache.DeleteByID(ctx, id); err != nil {
		return nil, err
	}

	c, err := s.customerRps.Update(ctx, id, patch)
	if err != nil {
		return nil, err
	}

	if c == nil {
		return nil, errors.NewCustomerNotFoundErr(id)
	}
	return c, nil
}

func (s *customerService) DeleteByID(ctx context.Context, id string) error {
	if err := s.customerCache.DeleteByID(ctx, id); err != nil {
		return err
	}

	deleted, err := s.customerRps.DeleteByID(ctx, id)
	if err != nil {
		return err
	}

	if !deleted {
		return errors.NewCustomerNotFoundErr(id)
	}
	return nil
}
