package billing

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/samber/lo"

	"github.com/jhoicas/posadmin-api/internal/application/dto"
	"github.com/jhoicas/posadmin-api/internal/domain"
	"github.com/jhoicas/posadmin-api/internal/domain/entity"
	"github.com/jhoicas/posadmin-api/internal/domain/invoicing"
	"github.com/jhoicas/posadmin-api/internal/domain/repository"
	"github.com/jhoicas/posadmin-api/pkg/logger"
)

// maxNumberAttempts reintentos cuando el consecutivo INV-XXXXXX ya existe.
const maxNumberAttempts = 3

// InvoiceUseCase crea, previsualiza, lista y consulta facturas.
type InvoiceUseCase struct {
	txRunner    InvoiceTxRunner
	invoiceRepo repository.InvoiceRepository
	catalog     repository.CatalogRepository
	presenter   *Presenter
	log         *logger.Logger
	now         func() time.Time

	// rejectNegative rechaza al crear facturas cuyo descuento supera el subtotal.
	rejectNegative bool
}

// NewInvoiceUseCase construye el caso de uso.
func NewInvoiceUseCase(
	txRunner InvoiceTxRunner,
	invoiceRepo repository.InvoiceRepository,
	catalog repository.CatalogRepository,
	presenter *Presenter,
	log *logger.Logger,
) *InvoiceUseCase {
	return &InvoiceUseCase{
		txRunner:    txRunner,
		invoiceRepo: invoiceRepo,
		catalog:     catalog,
		presenter:   presenter,
		log:         log.Named("invoices"),
		now:         time.Now,
	}
}

// WithClock reemplaza el reloj (tests).
func (uc *InvoiceUseCase) WithClock(now func() time.Time) *InvoiceUseCase {
	uc.now = now
	return uc
}

// WithRejectNegativeTotals activa el rechazo de descuentos mayores al subtotal al crear.
// La vista previa nunca rechaza.
func (uc *InvoiceUseCase) WithRejectNegativeTotals(reject bool) *InvoiceUseCase {
	uc.rejectNegative = reject
	return uc
}

// resolvedInvoice request ya validado con precios y nombres del catálogo.
type resolvedInvoice struct {
	owner       *entity.BusinessOwner
	data        entity.ItemsData
	lines       []invoicing.LineItem
	invoiceDate time.Time
	dueDate     time.Time
}

// CreateInvoice valida el request, toma precios del catálogo y guarda la factura en draft.
// Los totales no se guardan; el detalle los recalcula con el mismo Presenter.
func (uc *InvoiceUseCase) CreateInvoice(ctx context.Context, in dto.CreateInvoiceRequest) (*dto.CreateInvoiceResponse, error) {
	if in.OwnerID == "" {
		return nil, dto.NewValidationError("owner_id", "requerido")
	}
	if in.LineCount() == 0 {
		return nil, dto.NewValidationError("items", "se requiere al menos un dispositivo o suscripción")
	}
	r, err := uc.resolve(ctx, in)
	if err != nil {
		return nil, err
	}
	if uc.rejectNegative {
		if fin := uc.presenter.Compute(r.lines, in.Discount, in.VATInclusive); fin.DiscountExceedsSubtotal() {
			return nil, fmt.Errorf("%w: descuento %s, subtotal %s", domain.ErrDiscountExceedsSubtotal, fin.Discount, fin.Subtotal)
		}
	}

	now := uc.now()
	inv := &entity.Invoice{
		ID:            uuid.New().String(),
		OwnerID:       r.owner.ID,
		Status:        entity.InvoiceStatusDraft,
		InvoiceDate:   r.invoiceDate,
		DueDate:       r.dueDate,
		BilledName:    r.owner.DisplayName(),
		BilledEmail:   r.owner.Email,
		BilledPhone:   r.owner.Phone,
		BilledAddress: r.owner.Address,
		Discount:      in.Discount,
		VATInclusive:  in.VATInclusive,
		Note:          in.Note,
		CreatedAt:     now,
		UpdatedAt:     now,
	}
	item := entity.InvoiceItem{
		ID:        uuid.New().String(),
		InvoiceID: inv.ID,
		Position:  0,
		ItemsData: r.data,
	}
	inv.Items = []entity.InvoiceItem{item}

	for attempt := 0; attempt < maxNumberAttempts; attempt++ {
		inv.InvoiceNumber = GenerateInvoiceNumber(now.Add(time.Duration(attempt) * time.Millisecond))
		err = uc.txRunner.RunInvoice(ctx, func(invoiceRepo repository.InvoiceRepository) error {
			if err := invoiceRepo.Create(ctx, inv); err != nil {
				return err
			}
			return invoiceRepo.CreateItem(ctx, &item)
		})
		if !errors.Is(err, domain.ErrDuplicate) {
			break
		}
		uc.log.Warn().Str("invoice_number", inv.InvoiceNumber).Int("attempt", attempt+1).Msg("consecutivo duplicado, reintentando")
	}
	if err != nil {
		uc.log.Error().Err(err).Str("owner_id", inv.OwnerID).Msg("crear factura")
		return nil, fmt.Errorf("crear factura: %w", err)
	}

	uc.log.Info().
		Str("invoice_id", inv.ID).
		Str("invoice_number", inv.InvoiceNumber).
		Int("lines", len(r.lines)).
		Msg("factura creada")

	return &dto.CreateInvoiceResponse{
		ID:            inv.ID,
		InvoiceNumber: inv.InvoiceNumber,
		RedirectTo:    "/invoices/" + inv.ID,
	}, nil
}

// PreviewInvoice calcula el Presentation del formulario sin persistir nada.
// El dueño es opcional mientras el usuario completa el formulario.
func (uc *InvoiceUseCase) PreviewInvoice(ctx context.Context, in dto.CreateInvoiceRequest) (*Presentation, error) {
	r, err := uc.resolve(ctx, in)
	if err != nil {
		return nil, err
	}
	meta := InvoiceMeta{
		Status:      entity.InvoiceStatusDraft,
		InvoiceDate: r.invoiceDate,
		DueDate:     r.dueDate,
		Note:        in.Note,
	}
	if r.owner != nil {
		meta.BilledName = r.owner.DisplayName()
		meta.BilledEmail = r.owner.Email
		meta.BilledPhone = r.owner.Phone
		meta.BilledAddress = r.owner.Address
	}
	p := uc.presenter.Build(meta, r.lines, in.Discount, in.VATInclusive)
	return &p, nil
}

// GetInvoice carga la factura con sus filas.
func (uc *InvoiceUseCase) GetInvoice(ctx context.Context, id string) (*entity.Invoice, error) {
	if id == "" {
		return nil, domain.ErrInvalidInput
	}
	inv, err := uc.invoiceRepo.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("obtener factura: %w", err)
	}
	if inv == nil {
		return nil, domain.ErrNotFound
	}
	items, err := uc.invoiceRepo.GetItemsByInvoiceID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("obtener filas de factura: %w", err)
	}
	inv.Items = items
	return inv, nil
}

// GetInvoicePresentation detalle persistido, armado con el mismo Presenter que la vista previa.
func (uc *InvoiceUseCase) GetInvoicePresentation(ctx context.Context, id string) (*Presentation, error) {
	inv, err := uc.GetInvoice(ctx, id)
	if err != nil {
		return nil, err
	}
	p := uc.presenter.Build(MetaFromInvoice(inv), inv.LineItems(), inv.Discount, inv.VATInclusive)
	return &p, nil
}

// ListInvoices listado paginado con el total recalculado y formateado.
func (uc *InvoiceUseCase) ListInvoices(ctx context.Context, in dto.ListInvoicesRequest) (*dto.InvoiceListResponse, error) {
	if err := dto.Validate(in); err != nil {
		return nil, err
	}
	in.DefaultPage()
	list, total, err := uc.invoiceRepo.List(ctx, repository.InvoiceFilter{
		Status: in.Status,
		Search: in.Search,
		Limit:  in.Limit,
		Offset: in.Offset,
	})
	if err != nil {
		return nil, fmt.Errorf("listar facturas: %w", err)
	}
	items := lo.Map(list, func(inv *entity.Invoice, _ int) dto.InvoiceListItem {
		fin := uc.presenter.Compute(inv.LineItems(), inv.Discount, inv.VATInclusive)
		return dto.InvoiceListItem{
			ID:            inv.ID,
			InvoiceNumber: inv.InvoiceNumber,
			Status:        inv.Status,
			BilledName:    inv.BilledName,
			InvoiceDate:   formatDate(inv.InvoiceDate),
			DueDate:       formatDate(inv.DueDate),
			Total:         uc.presenter.formatter.Format(fin.Total),
		}
	})
	return &dto.InvoiceListResponse{
		Items: items,
		Page:  dto.PageResponse{Limit: in.Limit, Offset: in.Offset, Total: total},
	}, nil
}

// UpdateStatus cambia el estado (draft, paid, cancelled). No toca montos.
// Una factura cancelada no vuelve a otro estado.
func (uc *InvoiceUseCase) UpdateStatus(ctx context.Context, id string, in dto.UpdateInvoiceStatusRequest) error {
	if err := dto.Validate(in); err != nil {
		return err
	}
	inv, err := uc.invoiceRepo.GetByID(ctx, id)
	if err != nil {
		return fmt.Errorf("obtener factura: %w", err)
	}
	if inv == nil {
		return domain.ErrNotFound
	}
	if inv.Status == in.Status {
		return nil
	}
	if inv.Status == entity.InvoiceStatusCancelled {
		return fmt.Errorf("%w: la factura %s está cancelada", domain.ErrConflict, inv.InvoiceNumber)
	}
	if err := uc.invoiceRepo.UpdateStatus(ctx, id, in.Status, uc.now()); err != nil {
		return fmt.Errorf("actualizar estado: %w", err)
	}
	uc.log.Info().Str("invoice_id", id).Str("from", inv.Status).Str("to", in.Status).Msg("estado de factura actualizado")
	return nil
}

// resolve valida el request y arma las líneas con datos del catálogo.
// Un precio en cero en el request toma el precio del catálogo.
func (uc *InvoiceUseCase) resolve(ctx context.Context, in dto.CreateInvoiceRequest) (*resolvedInvoice, error) {
	if err := dto.Validate(in); err != nil {
		return nil, err
	}
	if in.Discount.IsNegative() {
		return nil, dto.NewValidationError("discount", "debe ser mayor o igual a 0")
	}

	r := &resolvedInvoice{}
	if in.OwnerID != "" {
		owner, err := uc.catalog.GetOwner(ctx, in.OwnerID)
		if err != nil {
			return nil, fmt.Errorf("obtener dueño de negocio: %w", err)
		}
		if owner == nil {
			return nil, fmt.Errorf("%w: dueño de negocio %s", domain.ErrNotFound, in.OwnerID)
		}
		r.owner = owner
	}

	for i, line := range in.Devices {
		if line.UnitPrice.IsNegative() {
			return nil, dto.NewValidationError(fmt.Sprintf("devices[%d].unit_price", i), "debe ser mayor o igual a 0")
		}
		dev, err := uc.catalog.GetDevice(ctx, line.DeviceID)
		if err != nil {
			return nil, fmt.Errorf("obtener dispositivo: %w", err)
		}
		if dev == nil {
			return nil, fmt.Errorf("%w: dispositivo %s", domain.ErrNotFound, line.DeviceID)
		}
		price := line.UnitPrice
		if price.IsZero() {
			price = dev.Price
		}
		r.data.Devices = append(r.data.Devices, entity.DeviceItem{
			DeviceID:  dev.ID,
			Brand:     dev.Brand,
			Type:      dev.Type,
			UnitPrice: price,
			Quantity:  line.Quantity,
		})
	}

	for i, line := range in.Subscriptions {
		if line.Price.IsNegative() {
			return nil, dto.NewValidationError(fmt.Sprintf("subscriptions[%d].price", i), "debe ser mayor o igual a 0")
		}
		pkg, err := uc.catalog.GetSubscriptionPackage(ctx, line.PackageID)
		if err != nil {
			return nil, fmt.Errorf("obtener paquete de suscripción: %w", err)
		}
		if pkg == nil {
			return nil, fmt.Errorf("%w: paquete de suscripción %s", domain.ErrNotFound, line.PackageID)
		}
		price := line.Price
		if price.IsZero() {
			price = pkg.Price
		}
		r.data.Subscriptions = append(r.data.Subscriptions, entity.SubscriptionItem{
			PackageID: pkg.ID,
			Name:      pkg.Name,
			Price:     price,
			Quantity:  line.Quantity,
		})
	}
	r.lines = r.data.LineItems()

	// Fechas de calendario en UTC, igual que las que llegan como "2006-01-02".
	today := uc.now()
	r.invoiceDate = time.Date(today.Year(), today.Month(), today.Day(), 0, 0, 0, 0, time.UTC)
	if in.InvoiceDate != "" {
		d, err := time.Parse(dto.DateLayout, in.InvoiceDate)
		if err != nil {
			return nil, dto.NewValidationError("invoice_date", "formato de fecha inválido, use "+dto.DateLayout)
		}
		r.invoiceDate = d
	}
	r.dueDate = r.invoiceDate
	if in.DueDate != "" {
		d, err := time.Parse(dto.DateLayout, in.DueDate)
		if err != nil {
			return nil, dto.NewValidationError("due_date", "formato de fecha inválido, use "+dto.DateLayout)
		}
		r.dueDate = d
	}
	if r.dueDate.Before(r.invoiceDate) {
		return nil, dto.NewValidationError("due_date", "no puede ser anterior a invoice_date")
	}
	return r, nil
}

// MetaFromInvoice cabecera de presentación de una factura persistida.
func MetaFromInvoice(inv *entity.Invoice) InvoiceMeta {
	return InvoiceMeta{
		InvoiceNumber: inv.InvoiceNumber,
		Status:        inv.Status,
		InvoiceDate:   inv.InvoiceDate,
		DueDate:       inv.DueDate,
		BilledName:    inv.BilledName,
		BilledEmail:   inv.BilledEmail,
		BilledPhone:   inv.BilledPhone,
		BilledAddress: inv.BilledAddress,
		Note:          inv.Note,
	}
}

// GenerateInvoiceNumber "INV-" + últimos 6 dígitos del timestamp en milisegundos.
func GenerateInvoiceNumber(t time.Time) string {
	return fmt.Sprintf("%s%06d", entity.InvoiceNumberPrefix, t.UnixMilli()%1_000_000)
}
