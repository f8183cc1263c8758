package service

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/DovranA/zara-app/internal/export"
	"github.com/DovranA/zara-app/internal/repository"

	"github.com/google/uuid"
)

// ExportService hydrates entities (all foreign keys resolved to display
// names) and hands them to the formatter. Documents land in exportDir with
// uuid-suffixed names so repeated exports never clobber each other.
type ExportService interface {
	ExportProducts(ctx context.Context) (string, error)
	ExportDelivery(ctx context.Context, id int64) (string, error)
}

type exportService struct {
	users      repository.UserRepository
	products   repository.ProductRepository
	deliveries repository.DeliveryRepository
	items      repository.DeliveryItemRepository
	exportDir  string
}

func NewExportService(
	u repository.UserRepository,
	p repository.ProductRepository,
	d repository.DeliveryRepository,
	i repository.DeliveryItemRepository,
	exportDir string,
) ExportService {
	return &exportService{users: u, products: p, deliveries: d, items: i, exportDir: exportDir}
}

func (s *exportService) ExportProducts(ctx context.Context) (string, error) {
	products, err := s.products.FindAll()
	if err != nil {
		return "", err
	}
	users, err := s.users.FindAll()
	if err != nil {
		return "", err
	}
	names := make(map[int64]string, len(users))
	for _, u := range users {
		names[u.ID] = u.Name
	}

	records := make([]export.CatalogProduct, 0, len(products))
	for _, p := range products {
		record := export.CatalogProduct{Product: p}
		if p.UserID != nil {
			record.UserName = names[*p.UserID]
		}
		records = append(records, record)
	}

	doc, err := export.RenderCatalog(records)
	if err != nil {
		return "", err
	}
	return s.write("products", doc)
}

func (s *exportService) ExportDelivery(ctx context.Context, id int64) (string, error) {
	delivery, err := s.deliveries.FindByID(id)
	if err != nil {
		return "", err
	}
	if delivery == nil {
		return "", fmt.Errorf("delivery %d not found", id)
	}
	recipient, err := s.users.FindByID(delivery.UserID)
	if err != nil {
		return "", err
	}
	items, err := s.items.FindByDelivery(id)
	if err != nil {
		return "", err
	}

	note := export.Note{Delivery: *delivery}
	if recipient != nil {
		note.Recipient = *recipient
	}
	for _, item := range items {
		line := export.NoteLine{Quantity: item.Quantity, UnitPrice: item.UnitPrice}
		product, err := s.products.FindByID(item.ProductID)
		if err != nil {
			return "", err
		}
		if product != nil {
			line.ProductName = product.Name
		}
		note.Lines = append(note.Lines, line)
	}

	doc, err := export.RenderNote(note)
	if err != nil {
		return "", err
	}
	return s.write(fmt.Sprintf("delivery-%d", id), doc)
}

func (s *exportService) write(prefix string, doc []byte) (string, error) {
	if err := os.MkdirAll(s.exportDir, 0o755); err != nil {
		return "", fmt.Errorf("create export dir: %w", err)
	}
	name := fmt.Sprintf("%s-%s.html", prefix, uuid.NewString())
	path := filepath.Join(s.exportDir, name)
	if err := os.WriteFile(path, doc, 0o644); err != nil {
		return "", fmt.Errorf("write export: %w", err)
	}
	return path, nil
}
