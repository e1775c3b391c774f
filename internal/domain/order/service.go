// internal/domain/order/service.go
package order

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/your-org/tireshop-backend/internal/config"
	"github.com/your-org/tireshop-backend/internal/domain/catalog"
	"github.com/your-org/tireshop-backend/internal/domain/inventory"
	"github.com/your-org/tireshop-backend/internal/domain/pricing"
	"github.com/your-org/tireshop-backend/internal/domain/shipping"
	"github.com/your-org/tireshop-backend/internal/pkg/apperrors"
	"github.com/your-org/tireshop-backend/internal/pkg/carrier"
	"github.com/your-org/tireshop-backend/internal/pkg/email"
	"gorm.io/gorm"
)

// RateProvider returns shipping options for a packaged cart
type RateProvider interface {
	GetRates(ctx context.Context, recipient carrier.Address, packages []shipping.Package) []pricing.ShippingOption
}

// Notifier sends the best-effort order confirmation
type Notifier interface {
	SendOrderConfirmation(ctx context.Context, to string, data *email.OrderConfirmationData) error
}

// Service orchestrates order fulfillment: stock validation, pricing,
// packaging, and the atomic order-plus-ledger transaction.
type Service struct {
	repo       Repository
	inventory  *inventory.Service
	catalog    catalog.Repository
	promotions pricing.Repository
	packager   *shipping.Packager
	rates      RateProvider
	notifier   Notifier
	config     *config.Config
	logger     *logrus.Logger
}

// NewService creates a new order service
func NewService(
	repo Repository,
	inventorySvc *inventory.Service,
	catalogRepo catalog.Repository,
	promotionRepo pricing.Repository,
	packager *shipping.Packager,
	rates RateProvider,
	notifier Notifier,
	cfg *config.Config,
	logger *logrus.Logger,
) *Service {
	return &Service{
		repo:       repo,
		inventory:  inventorySvc,
		catalog:    catalogRepo,
		promotions: promotionRepo,
		packager:   packager,
		rates:      rates,
		notifier:   notifier,
		config:     cfg,
		logger:     logger,
	}
}

// OrderItemRequest is one requested cart line
type OrderItemRequest struct {
	ProductID uint `json:"product_id" binding:"required"`
	Quantity  int  `json:"quantity" binding:"required,min=1"`
}

// CreateOrderRequest represents checkout data
type CreateOrderRequest struct {
	Email            string             `json:"email" binding:"required,email"`
	UserID           *uint              `json:"-"`
	Items            []OrderItemRequest `json:"items" binding:"required,min=1,dive"`
	ShippingAddress  Address            `json:"shipping_address" binding:"required"`
	BillingAddress   Address            `json:"billing_address"`
	PaymentMethod    string             `json:"payment_method" binding:"required"`
	ShippingOptionID string             `json:"shipping_option_id"`
	PromotionIDs     []uint             `json:"promotion_ids"`
	Notes            string             `json:"notes"`
}

// stockAdjustment is one planned ledger decrement for an order line
type stockAdjustment struct {
	inventoryID uint
	quantity    int
}

// CreateOrder validates stock, prices the cart, and creates the order
// atomically with its items and stock decrements. The confirmation
// email after commit is best-effort only.
func (s *Service) CreateOrder(ctx context.Context, req *CreateOrderRequest) (*Order, error) {
	if len(req.Items) == 0 {
		return nil, apperrors.Validationf("order must contain at least one item")
	}
	for _, item := range req.Items {
		if item.Quantity <= 0 {
			return nil, apperrors.Validationf("quantity for product %d must be positive", item.ProductID)
		}
	}

	location, err := s.inventory.DefaultLocation()
	if err != nil {
		return nil, err
	}

	// Fail fast on unknown products and short stock before any write.
	var (
		lines       []pricing.Line
		shipItems   []shipping.Item
		orderItems  []OrderItem
		adjustments []stockAdjustment
	)
	for _, item := range req.Items {
		product, err := s.catalog.GetProduct(item.ProductID)
		if err != nil {
			return nil, err
		}

		record, err := s.inventory.RecordForProduct(product.ID, location.ID)
		if err != nil {
			if apperrors.IsNotFound(err) {
				return nil, apperrors.InsufficientStock(product.ID, product.Name, item.Quantity, 0)
			}
			return nil, err
		}
		if !record.CanFulfill(item.Quantity) {
			return nil, apperrors.InsufficientStock(product.ID, product.Name, item.Quantity, record.Quantity)
		}

		unitPrice := product.SalePrice()
		lines = append(lines, pricing.Line{
			ProductID:  product.ID,
			BrandID:    product.BrandID,
			CategoryID: product.CategoryID,
			ModelID:    product.ModelID,
			UnitPrice:  unitPrice,
			ListPrice:  product.ListPrice(),
			Quantity:   item.Quantity,
		})
		shipItems = append(shipItems, shipping.Item{
			ProductID: product.ID,
			Name:      product.Name,
			WeightKg:  product.WeightKg,
			LengthCm:  product.LengthCm,
			WidthCm:   product.WidthCm,
			HeightCm:  product.HeightCm,
			Quantity:  item.Quantity,
		})
		orderItems = append(orderItems, OrderItem{
			ProductID:  product.ID,
			SKU:        product.SKU,
			Name:       product.Name,
			Quantity:   item.Quantity,
			Price:      unitPrice,
			TotalPrice: unitPrice * int64(item.Quantity),
		})
		adjustments = append(adjustments, stockAdjustment{
			inventoryID: record.ID,
			quantity:    item.Quantity,
		})
	}

	promotions, err := s.promotions.GetActivePromotions(req.PromotionIDs)
	if err != nil {
		return nil, err
	}

	shippingOption := s.selectShippingOption(ctx, req.ShippingAddress, shipItems, req.ShippingOptionID)
	quote := pricing.Price(lines, promotions, s.config.Pricing.TaxRate, shippingOption)

	billing := req.BillingAddress
	if billing.AddressLine1 == "" {
		billing = req.ShippingAddress
	}

	orderNumber := GenerateOrderNumber()
	newOrder := &Order{
		OrderNumber:     orderNumber,
		UserID:          req.UserID,
		Email:           req.Email,
		Status:          OrderStatusPending,
		PaymentStatus:   PaymentStatusPending,
		PaymentMethod:   req.PaymentMethod,
		SubtotalAmount:  quote.Subtotal,
		CatalogDiscount: quote.CatalogDiscount,
		DiscountAmount:  quote.PromotionsDiscount,
		TaxAmount:       quote.Tax,
		ShippingAmount:  quote.Shipping,
		TotalAmount:     quote.Total,
		ShippingAddress: req.ShippingAddress,
		BillingAddress:  billing,
		Currency:        s.config.Pricing.Currency,
		Notes:           req.Notes,
		ShippingMethod:  shippingOption.Name,
		Items:           orderItems,
	}

	// One transaction: order row, item rows, and every stock decrement
	// commit together or not at all. A stock race lost since the
	// fail-fast check above surfaces here and rolls everything back.
	err = s.repo.Transaction(func(orders Repository, ledger inventory.Repository) error {
		if err := orders.Create(newOrder); err != nil {
			return apperrors.Internalf(err, "failed to create order")
		}
		for _, adj := range adjustments {
			reason := fmt.Sprintf("order %s", orderNumber)
			if err := s.inventory.AdjustForOrder(ledger, adj.inventoryID, -adj.quantity, inventory.MovementTypeSale, reason); err != nil {
				return err
			}
		}
		return orders.CreateStatusHistory(&OrderStatusHistory{
			OrderID: newOrder.ID,
			Status:  OrderStatusPending,
			Comment: "Order placed",
		})
	})
	if err != nil {
		return nil, err
	}

	s.logger.WithFields(logrus.Fields{
		"order_number": orderNumber,
		"total":        newOrder.TotalAmount,
		"items":        len(orderItems),
	}).Info("Order created")

	s.notifyConfirmation(newOrder)
	return newOrder, nil
}

// selectShippingOption packages the cart, asks the carrier for rates,
// and picks the requested option, falling back to the cheapest offer.
func (s *Service) selectShippingOption(ctx context.Context, addr Address, items []shipping.Item, optionID string) pricing.ShippingOption {
	packages := s.packager.Pack(items)
	recipient := carrier.Address{
		Name:       fmt.Sprintf("%s %s", addr.FirstName, addr.LastName),
		Street:     addr.AddressLine1,
		City:       addr.City,
		State:      addr.State,
		PostalCode: addr.PostalCode,
		Country:    addr.Country,
	}

	options := s.rates.GetRates(ctx, recipient, packages)
	if len(options) == 0 {
		options = carrier.DefaultOptions()
	}

	if optionID != "" {
		for _, option := range options {
			if option.ID == optionID {
				return option
			}
		}
	}

	cheapest := options[0]
	for _, option := range options[1:] {
		if option.Price < cheapest.Price {
			cheapest = option
		}
	}
	return cheapest
}

// GetShippingRates packages the requested items and returns the
// carrier's options for the destination.
func (s *Service) GetShippingRates(ctx context.Context, addr Address, items []OrderItemRequest) ([]pricing.ShippingOption, error) {
	var shipItems []shipping.Item
	for _, item := range items {
		if item.Quantity <= 0 {
			return nil, apperrors.Validationf("quantity for product %d must be positive", item.ProductID)
		}
		product, err := s.catalog.GetProduct(item.ProductID)
		if err != nil {
			return nil, err
		}
		shipItems = append(shipItems, shipping.Item{
			ProductID: product.ID,
			Name:      product.Name,
			WeightKg:  product.WeightKg,
			LengthCm:  product.LengthCm,
			WidthCm:   product.WidthCm,
			HeightCm:  product.HeightCm,
			Quantity:  item.Quantity,
		})
	}

	packages := s.packager.Pack(shipItems)
	recipient := carrier.Address{
		Name:       fmt.Sprintf("%s %s", addr.FirstName, addr.LastName),
		Street:     addr.AddressLine1,
		City:       addr.City,
		State:      addr.State,
		PostalCode: addr.PostalCode,
		Country:    addr.Country,
	}
	return s.rates.GetRates(ctx, recipient, packages), nil
}

// Cancel cancels a pre-shipment order and restores its stock as RETURN
// movements, in one transaction with the status change.
func (s *Service) Cancel(orderID uint, cancelledBy uint) (*Order, error) {
	existing, err := s.getOrder(orderID)
	if err != nil {
		return nil, err
	}
	if !existing.CanBeCancelled() {
		return nil, apperrors.Conflictf("order %s cannot be cancelled from status %s", existing.OrderNumber, existing.Status)
	}

	location, err := s.inventory.DefaultLocation()
	if err != nil {
		return nil, err
	}

	err = s.repo.Transaction(func(orders Repository, ledger inventory.Repository) error {
		now := time.Now().UTC()
		existing.Status = OrderStatusCancelled
		existing.CancelledAt = &now
		if err := orders.Save(existing); err != nil {
			return apperrors.Internalf(err, "failed to update order %d", orderID)
		}

		for _, item := range existing.Items {
			record, err := ledger.GetRecordByProductAndLocation(item.ProductID, location.ID)
			if err != nil {
				if errors.Is(err, gorm.ErrRecordNotFound) {
					s.logger.WithFields(logrus.Fields{
						"order_number": existing.OrderNumber,
						"product_id":   item.ProductID,
					}).Warn("Inventory record gone, skipping stock restore for line")
					continue
				}
				return apperrors.Internalf(err, "failed to load inventory for product %d", item.ProductID)
			}
			if err := s.inventory.AdjustForOrder(ledger, record.ID, item.Quantity, inventory.MovementTypeReturn, "order cancelled"); err != nil {
				return err
			}
		}

		return orders.CreateStatusHistory(&OrderStatusHistory{
			OrderID:   existing.ID,
			Status:    OrderStatusCancelled,
			Comment:   "Order cancelled, stock restored",
			CreatedBy: cancelledBy,
		})
	})
	if err != nil {
		return nil, err
	}

	s.logger.WithField("order_number", existing.OrderNumber).Info("Order cancelled")
	return existing, nil
}

// UpdateStatus moves an order along the state machine. Transitions to
// CANCELLED go through Cancel so stock is restored.
func (s *Service) UpdateStatus(orderID uint, next OrderStatus, comment string, updatedBy uint) (*Order, error) {
	if !next.IsValid() {
		return nil, apperrors.Validationf("invalid order status: %s", next)
	}
	if next == OrderStatusCancelled {
		return s.Cancel(orderID, updatedBy)
	}

	existing, err := s.getOrder(orderID)
	if err != nil {
		return nil, err
	}
	if !existing.Status.CanTransitionTo(next) {
		return nil, apperrors.Conflictf("order %s cannot move from %s to %s", existing.OrderNumber, existing.Status, next)
	}

	now := time.Now().UTC()
	existing.Status = next
	switch next {
	case OrderStatusProcessing:
		existing.ProcessedAt = &now
	case OrderStatusShipped:
		existing.ShippedAt = &now
	}

	err = s.repo.Transaction(func(orders Repository, _ inventory.Repository) error {
		if err := orders.Save(existing); err != nil {
			return apperrors.Internalf(err, "failed to update order %d", orderID)
		}
		return orders.CreateStatusHistory(&OrderStatusHistory{
			OrderID:   existing.ID,
			Status:    next,
			Comment:   comment,
			CreatedBy: updatedBy,
		})
	})
	if err != nil {
		return nil, err
	}
	return existing, nil
}

// GetOrder loads one order with its items and history
func (s *Service) GetOrder(orderID uint) (*Order, error) {
	return s.getOrder(orderID)
}

// GetOrderByNumber loads one order by its order number
func (s *Service) GetOrderByNumber(orderNumber string) (*Order, error) {
	o, err := s.repo.GetByOrderNumber(orderNumber)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.NotFoundf("order %s not found", orderNumber)
		}
		return nil, apperrors.Internalf(err, "failed to load order %s", orderNumber)
	}
	return o, nil
}

// ListOrders returns a page of orders, optionally filtered by status
func (s *Service) ListOrders(status *OrderStatus, page, limit int) ([]Order, int64, error) {
	limit, offset := normalizePage(page, limit)
	orders, total, err := s.repo.List(status, limit, offset)
	if err != nil {
		return nil, 0, apperrors.Internalf(err, "failed to list orders")
	}
	return orders, total, nil
}

// ListUserOrders returns a page of one user's orders
func (s *Service) ListUserOrders(userID uint, page, limit int) ([]Order, int64, error) {
	limit, offset := normalizePage(page, limit)
	orders, total, err := s.repo.ListByUser(userID, limit, offset)
	if err != nil {
		return nil, 0, apperrors.Internalf(err, "failed to list orders for user %d", userID)
	}
	return orders, total, nil
}

func (s *Service) getOrder(orderID uint) (*Order, error) {
	o, err := s.repo.GetByID(orderID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.NotFoundf("order %d not found", orderID)
		}
		return nil, apperrors.Internalf(err, "failed to load order %d", orderID)
	}
	return o, nil
}

// notifyConfirmation sends the confirmation mail outside the order
// transaction; failures are logged and never fail the order.
func (s *Service) notifyConfirmation(o *Order) {
	if s.notifier == nil {
		return
	}

	data := &email.OrderConfirmationData{
		CustomerName: fmt.Sprintf("%s %s", o.ShippingAddress.FirstName, o.ShippingAddress.LastName),
		OrderNumber:  o.OrderNumber,
		Subtotal:     formatCents(o.SubtotalAmount, o.Currency),
		Discount:     formatCents(o.DiscountAmount, o.Currency),
		Tax:          formatCents(o.TaxAmount, o.Currency),
		Shipping:     formatCents(o.ShippingAmount, o.Currency),
		Total:        formatCents(o.TotalAmount, o.Currency),
	}
	for _, item := range o.Items {
		data.Items = append(data.Items, email.OrderConfirmationItem{
			Name:     item.Name,
			Quantity: item.Quantity,
			Price:    formatCents(item.Price, o.Currency),
		})
	}

	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()
		if err := s.notifier.SendOrderConfirmation(ctx, o.Email, data); err != nil {
			s.logger.WithError(err).WithField("order_number", o.OrderNumber).
				Warn("Failed to send order confirmation")
		}
	}()
}

func formatCents(amount int64, currency string) string {
	return fmt.Sprintf("%.2f %s", float64(amount)/100, currency)
}

func normalizePage(page, limit int) (int, int) {
	if limit <= 0 || limit > 100 {
		limit = 20
	}
	if page <= 0 {
		page = 1
	}
	return limit, (page - 1) * limit
}
