package workflow

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/wms/backend/internal/domain/document"
	"github.com/wms/backend/internal/domain/inventory"
	"github.com/wms/backend/internal/domain/ledger"
	"github.com/wms/backend/internal/domain/numbering"
	"github.com/wms/backend/internal/domain/shared"
	"github.com/wms/backend/internal/domain/valuation"
)

// memStore is an in-memory stand-in for the engine's persistence layer. The
// real repositories rely on row locks the test database cannot provide, so
// service tests run the full workflow against this store instead.
type memStore struct {
	moves       []*ledger.StockMove
	levels      map[string]*inventory.InventoryLevel
	layers      []*valuation.ValuationLayer
	claims      map[string]*shared.IdempotencyClaim
	sequences   map[string]int64
	receipts    map[uuid.UUID]*document.GoodsReceipt
	deliveries  map[uuid.UUID]*document.DeliveryOrder
	transfers   map[uuid.UUID]*document.StockTransfer
	takes       map[uuid.UUID]*document.StockTake
	recons      map[uuid.UUID]*document.Reconciliation
	returns     map[uuid.UUID]*document.ReturnAuthorization
	adjustments []*document.StockAdjustment
	published   []shared.DomainEvent
}

func newMemStore() *memStore {
	return &memStore{
		levels:     make(map[string]*inventory.InventoryLevel),
		claims:     make(map[string]*shared.IdempotencyClaim),
		sequences:  make(map[string]int64),
		receipts:   make(map[uuid.UUID]*document.GoodsReceipt),
		deliveries: make(map[uuid.UUID]*document.DeliveryOrder),
		transfers:  make(map[uuid.UUID]*document.StockTransfer),
		takes:      make(map[uuid.UUID]*document.StockTake),
		recons:     make(map[uuid.UUID]*document.Reconciliation),
		returns:    make(map[uuid.UUID]*document.ReturnAuthorization),
	}
}

func levelKey(tenantID uuid.UUID, b inventory.Bucket) string {
	return fmt.Sprintf("%s|%s|%s|%s|%s", tenantID, b.ProductID, b.WarehouseID, b.LocationID, b.LotRef)
}

func bucketOf(productID, warehouseID, locationID uuid.UUID, lotRef string) inventory.Bucket {
	return inventory.Bucket{ProductID: productID, WarehouseID: warehouseID, LocationID: locationID, LotRef: lotRef}
}

// seedStock places on-hand quantity with one matching valuation layer, the
// state a completed goods receipt would have left behind.
func (s *memStore) seedStock(tenantID, productID, warehouseID, locationID uuid.UUID, lotRef string, qty, unitCost decimal.Decimal, receivedAt time.Time) {
	bucket := inventory.Bucket{ProductID: productID, WarehouseID: warehouseID, LocationID: locationID, LotRef: lotRef}
	key := levelKey(tenantID, bucket)
	level, ok := s.levels[key]
	if !ok {
		level, _ = inventory.NewInventoryLevel(tenantID, bucket)
		s.levels[key] = level
	}
	level.OnHand = level.OnHand.Add(qty)

	layer, _ := valuation.NewValuationLayer(tenantID,
		valuation.Bucket{ProductID: productID, WarehouseID: warehouseID, LotRef: lotRef},
		qty, unitCost, receivedAt, uuid.New())
	s.layers = append(s.layers, layer)
}

// snapshot copies the store state so a failed closure can be undone the way
// the transactional scope rolls back. Moves, adjustments, and events are
// immutable once recorded so their slices share elements; levels, layers, and
// documents are mutated in place by the services and get copied.
func (s *memStore) snapshot() *memStore {
	c := &memStore{
		moves:       append([]*ledger.StockMove(nil), s.moves...),
		levels:      make(map[string]*inventory.InventoryLevel, len(s.levels)),
		layers:      make([]*valuation.ValuationLayer, 0, len(s.layers)),
		claims:      make(map[string]*shared.IdempotencyClaim, len(s.claims)),
		sequences:   make(map[string]int64, len(s.sequences)),
		receipts:    make(map[uuid.UUID]*document.GoodsReceipt, len(s.receipts)),
		deliveries:  make(map[uuid.UUID]*document.DeliveryOrder, len(s.deliveries)),
		transfers:   make(map[uuid.UUID]*document.StockTransfer, len(s.transfers)),
		takes:       make(map[uuid.UUID]*document.StockTake, len(s.takes)),
		recons:      make(map[uuid.UUID]*document.Reconciliation, len(s.recons)),
		returns:     make(map[uuid.UUID]*document.ReturnAuthorization, len(s.returns)),
		adjustments: append([]*document.StockAdjustment(nil), s.adjustments...),
		published:   append([]shared.DomainEvent(nil), s.published...),
	}
	for k, l := range s.levels {
		cp := *l
		c.levels[k] = &cp
	}
	for _, l := range s.layers {
		cp := *l
		c.layers = append(c.layers, &cp)
	}
	for k, v := range s.claims {
		c.claims[k] = v
	}
	for k, v := range s.sequences {
		c.sequences[k] = v
	}
	for k, d := range s.receipts {
		cp := *d
		cp.Lines = append([]document.GoodsReceiptLine(nil), d.Lines...)
		c.receipts[k] = &cp
	}
	for k, d := range s.deliveries {
		cp := *d
		cp.Lines = append([]document.DeliveryOrderLine(nil), d.Lines...)
		c.deliveries[k] = &cp
	}
	for k, d := range s.transfers {
		cp := *d
		cp.Lines = append([]document.StockTransferLine(nil), d.Lines...)
		c.transfers[k] = &cp
	}
	for k, d := range s.takes {
		cp := *d
		cp.Lines = append([]document.StockTakeLine(nil), d.Lines...)
		c.takes[k] = &cp
	}
	for k, d := range s.recons {
		cp := *d
		cp.Lines = append([]document.ReconciliationLine(nil), d.Lines...)
		c.recons[k] = &cp
	}
	for k, d := range s.returns {
		cp := *d
		cp.Lines = append([]document.ReturnAuthorizationLine(nil), d.Lines...)
		c.returns[k] = &cp
	}
	return c
}

func (s *memStore) restore(snap *memStore) {
	*s = *snap
}

func (s *memStore) eventTypes() []string {
	out := make([]string, 0, len(s.published))
	for _, e := range s.published {
		out = append(out, e.EventType())
	}
	return out
}

func (s *memStore) hasEvent(eventType string) bool {
	for _, e := range s.published {
		if e.EventType() == eventType {
			return true
		}
	}
	return false
}

// memScope runs the workflow closure directly against the shared store.
type memScope struct {
	store *memStore
}

func newMemScope() *memScope {
	return &memScope{store: newMemStore()}
}

func (s *memScope) Execute(_ context.Context, fn func(repos TransactionalRepositories) error) error {
	snap := s.store.snapshot()
	if err := fn(&memRepos{store: s.store}); err != nil {
		s.store.restore(snap)
		return err
	}
	return nil
}

type memRepos struct {
	store *memStore
}

func (r *memRepos) MoveRepo() ledger.StockMoveRepository             { return &memMoveRepo{r.store} }
func (r *memRepos) LevelRepo() inventory.InventoryLevelRepository    { return &memLevelRepo{r.store} }
func (r *memRepos) LayerRepo() valuation.ValuationLayerRepository    { return &memLayerRepo{r.store} }
func (r *memRepos) ClaimRepo() shared.IdempotencyClaimRepository     { return &memClaimRepo{r.store} }
func (r *memRepos) SequenceRepo() numbering.SequenceRepository       { return &memSequenceRepo{r.store} }
func (r *memRepos) GoodsReceiptRepo() document.GoodsReceiptRepository {
	return &memReceiptRepo{r.store}
}
func (r *memRepos) DeliveryOrderRepo() document.DeliveryOrderRepository {
	return &memDeliveryRepo{r.store}
}
func (r *memRepos) TransferRepo() document.StockTransferRepository { return &memTransferRepo{r.store} }
func (r *memRepos) StockTakeRepo() document.StockTakeRepository    { return &memTakeRepo{r.store} }
func (r *memRepos) ReconciliationRepo() document.ReconciliationRepository {
	return &memReconRepo{r.store}
}
func (r *memRepos) ReturnRepo() document.ReturnAuthorizationRepository {
	return &memReturnRepo{r.store}
}
func (r *memRepos) AdjustmentRepo() document.StockAdjustmentRepository {
	return &memAdjustmentRepo{r.store}
}

func (r *memRepos) PublishEvents(_ context.Context, events ...shared.DomainEvent) error {
	r.store.published = append(r.store.published, events...)
	return nil
}

type memMoveRepo struct{ store *memStore }

func (r *memMoveRepo) Record(_ context.Context, moves ...*ledger.StockMove) error {
	r.store.moves = append(r.store.moves, moves...)
	return nil
}

func (r *memMoveRepo) FindByID(_ context.Context, tenantID, id uuid.UUID) (*ledger.StockMove, error) {
	for _, m := range r.store.moves {
		if m.TenantID == tenantID && m.ID == id {
			return m, nil
		}
	}
	return nil, shared.ErrNotFound
}

func (r *memMoveRepo) FindByDocument(_ context.Context, tenantID uuid.UUID, documentType string, documentID uuid.UUID) ([]*ledger.StockMove, error) {
	var out []*ledger.StockMove
	for _, m := range r.store.moves {
		if m.TenantID == tenantID && m.Document.DocumentType == documentType && m.Document.DocumentID == documentID {
			out = append(out, m)
		}
	}
	return out, nil
}

func (r *memMoveRepo) FindByBucket(_ context.Context, tenantID uuid.UUID, filter ledger.BucketFilter, _ shared.Filter) ([]*ledger.StockMove, int64, error) {
	var out []*ledger.StockMove
	for _, m := range r.store.moves {
		if m.TenantID != tenantID || m.ProductID != filter.ProductID {
			continue
		}
		out = append(out, m)
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out, int64(len(out)), nil
}

type memLevelRepo struct{ store *memStore }

func (r *memLevelRepo) FindByBucket(_ context.Context, tenantID uuid.UUID, bucket inventory.Bucket) (*inventory.InventoryLevel, error) {
	level, ok := r.store.levels[levelKey(tenantID, bucket)]
	if !ok {
		return nil, shared.ErrNotFound
	}
	return level, nil
}

func (r *memLevelRepo) GetOrCreate(_ context.Context, tenantID uuid.UUID, bucket inventory.Bucket) (*inventory.InventoryLevel, error) {
	key := levelKey(tenantID, bucket)
	if level, ok := r.store.levels[key]; ok {
		return level, nil
	}
	level, err := inventory.NewInventoryLevel(tenantID, bucket)
	if err != nil {
		return nil, err
	}
	r.store.levels[key] = level
	return level, nil
}

func (r *memLevelRepo) Save(_ context.Context, level *inventory.InventoryLevel) error {
	r.store.levels[levelKey(level.TenantID, level.Bucket)] = level
	return nil
}

func (r *memLevelRepo) FindAllForTenant(_ context.Context, tenantID uuid.UUID, _ shared.Filter) ([]inventory.InventoryLevel, error) {
	var out []inventory.InventoryLevel
	for _, l := range r.store.levels {
		if l.TenantID == tenantID {
			out = append(out, *l)
		}
	}
	return out, nil
}

func (r *memLevelRepo) CountForTenant(_ context.Context, tenantID uuid.UUID, _ shared.Filter) (int64, error) {
	var n int64
	for _, l := range r.store.levels {
		if l.TenantID == tenantID {
			n++
		}
	}
	return n, nil
}

func (r *memLevelRepo) SumOnHandByProduct(_ context.Context, tenantID, productID uuid.UUID) (decimal.Decimal, error) {
	total := decimal.Zero
	for _, l := range r.store.levels {
		if l.TenantID == tenantID && l.Bucket.ProductID == productID {
			total = total.Add(l.OnHand)
		}
	}
	return total, nil
}

type memLayerRepo struct{ store *memStore }

func (r *memLayerRepo) FindOpenByBucket(_ context.Context, tenantID uuid.UUID, bucket valuation.Bucket) ([]*valuation.ValuationLayer, error) {
	var out []*valuation.ValuationLayer
	for _, l := range r.store.layers {
		if l.TenantID == tenantID && l.Bucket == bucket && !l.IsExhausted() {
			out = append(out, l)
		}
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].ReceivedAt.Before(out[j].ReceivedAt) })
	return out, nil
}

func (r *memLayerRepo) Save(_ context.Context, layers ...*valuation.ValuationLayer) error {
	for _, layer := range layers {
		found := false
		for i, existing := range r.store.layers {
			if existing.ID == layer.ID {
				r.store.layers[i] = layer
				found = true
				break
			}
		}
		if !found {
			r.store.layers = append(r.store.layers, layer)
		}
	}
	return nil
}

func (r *memLayerRepo) SumRemainingByBucket(_ context.Context, tenantID uuid.UUID, bucket valuation.Bucket) (decimal.Decimal, error) {
	total := decimal.Zero
	for _, l := range r.store.layers {
		if l.TenantID == tenantID && l.Bucket == bucket {
			total = total.Add(l.RemainingQuantity)
		}
	}
	return total, nil
}

type memClaimRepo struct{ store *memStore }

func claimKey(tenantID uuid.UUID, scopeKey string) string {
	return tenantID.String() + "|" + scopeKey
}

func (r *memClaimRepo) Claim(_ context.Context, claim *shared.IdempotencyClaim) (*shared.ClaimResult, error) {
	key := claimKey(claim.TenantID, claim.ScopeKey)
	if existing, ok := r.store.claims[key]; ok {
		return &shared.ClaimResult{Claimed: false, Existing: existing}, nil
	}
	r.store.claims[key] = claim
	return &shared.ClaimResult{Claimed: true}, nil
}

func (r *memClaimRepo) Find(_ context.Context, tenantID uuid.UUID, scopeKey string) (*shared.IdempotencyClaim, error) {
	if claim, ok := r.store.claims[claimKey(tenantID, scopeKey)]; ok {
		return claim, nil
	}
	return nil, shared.ErrNotFound
}

type memSequenceRepo struct{ store *memStore }

func (r *memSequenceRepo) Next(_ context.Context, tenantID uuid.UUID, documentType, period string) (int64, error) {
	key := fmt.Sprintf("%s|%s|%s", tenantID, documentType, period)
	r.store.sequences[key]++
	return r.store.sequences[key], nil
}

type memReceiptRepo struct{ store *memStore }

func (r *memReceiptRepo) FindByIDForTenant(_ context.Context, tenantID, id uuid.UUID) (*document.GoodsReceipt, error) {
	if grn, ok := r.store.receipts[id]; ok && grn.TenantID == tenantID {
		return grn, nil
	}
	return nil, shared.ErrNotFound
}

func (r *memReceiptRepo) FindByNumber(_ context.Context, tenantID uuid.UUID, number string) (*document.GoodsReceipt, error) {
	for _, grn := range r.store.receipts {
		if grn.TenantID == tenantID && grn.ReceiptNumber == number {
			return grn, nil
		}
	}
	return nil, shared.ErrNotFound
}

func (r *memReceiptRepo) FindAllForTenant(_ context.Context, tenantID uuid.UUID, _ shared.Filter) ([]document.GoodsReceipt, error) {
	var out []document.GoodsReceipt
	for _, grn := range r.store.receipts {
		if grn.TenantID == tenantID {
			out = append(out, *grn)
		}
	}
	return out, nil
}

func (r *memReceiptRepo) FindByStatus(_ context.Context, tenantID uuid.UUID, status document.GoodsReceiptStatus, _ shared.Filter) ([]document.GoodsReceipt, error) {
	var out []document.GoodsReceipt
	for _, grn := range r.store.receipts {
		if grn.TenantID == tenantID && grn.Status == status {
			out = append(out, *grn)
		}
	}
	return out, nil
}

func (r *memReceiptRepo) Save(_ context.Context, grn *document.GoodsReceipt) error {
	r.store.receipts[grn.ID] = grn
	return nil
}

func (r *memReceiptRepo) SaveWithLock(_ context.Context, grn *document.GoodsReceipt) error {
	r.store.receipts[grn.ID] = grn
	return nil
}

func (r *memReceiptRepo) CountForTenant(_ context.Context, tenantID uuid.UUID) (int64, error) {
	var n int64
	for _, grn := range r.store.receipts {
		if grn.TenantID == tenantID {
			n++
		}
	}
	return n, nil
}

type memDeliveryRepo struct{ store *memStore }

func (r *memDeliveryRepo) FindByIDForTenant(_ context.Context, tenantID, id uuid.UUID) (*document.DeliveryOrder, error) {
	if do, ok := r.store.deliveries[id]; ok && do.TenantID == tenantID {
		return do, nil
	}
	return nil, shared.ErrNotFound
}

func (r *memDeliveryRepo) FindByNumber(_ context.Context, tenantID uuid.UUID, number string) (*document.DeliveryOrder, error) {
	for _, do := range r.store.deliveries {
		if do.TenantID == tenantID && do.DeliveryNumber == number {
			return do, nil
		}
	}
	return nil, shared.ErrNotFound
}

func (r *memDeliveryRepo) FindByOrderRef(_ context.Context, tenantID uuid.UUID, orderRef string) (*document.DeliveryOrder, error) {
	for _, do := range r.store.deliveries {
		if do.TenantID == tenantID && do.OrderRef == orderRef {
			return do, nil
		}
	}
	return nil, shared.ErrNotFound
}

func (r *memDeliveryRepo) FindAllForTenant(_ context.Context, tenantID uuid.UUID, _ shared.Filter) ([]document.DeliveryOrder, error) {
	var out []document.DeliveryOrder
	for _, do := range r.store.deliveries {
		if do.TenantID == tenantID {
			out = append(out, *do)
		}
	}
	return out, nil
}

func (r *memDeliveryRepo) FindByStatus(_ context.Context, tenantID uuid.UUID, status document.DeliveryOrderStatus, _ shared.Filter) ([]document.DeliveryOrder, error) {
	var out []document.DeliveryOrder
	for _, do := range r.store.deliveries {
		if do.TenantID == tenantID && do.Status == status {
			out = append(out, *do)
		}
	}
	return out, nil
}

func (r *memDeliveryRepo) Save(_ context.Context, do *document.DeliveryOrder) error {
	r.store.deliveries[do.ID] = do
	return nil
}

func (r *memDeliveryRepo) SaveWithLock(_ context.Context, do *document.DeliveryOrder) error {
	r.store.deliveries[do.ID] = do
	return nil
}

func (r *memDeliveryRepo) CountForTenant(_ context.Context, tenantID uuid.UUID) (int64, error) {
	var n int64
	for _, do := range r.store.deliveries {
		if do.TenantID == tenantID {
			n++
		}
	}
	return n, nil
}

type memTransferRepo struct{ store *memStore }

func (r *memTransferRepo) FindByIDForTenant(_ context.Context, tenantID, id uuid.UUID) (*document.StockTransfer, error) {
	if st, ok := r.store.transfers[id]; ok && st.TenantID == tenantID {
		return st, nil
	}
	return nil, shared.ErrNotFound
}

func (r *memTransferRepo) FindByNumber(_ context.Context, tenantID uuid.UUID, number string) (*document.StockTransfer, error) {
	for _, st := range r.store.transfers {
		if st.TenantID == tenantID && st.TransferNumber == number {
			return st, nil
		}
	}
	return nil, shared.ErrNotFound
}

func (r *memTransferRepo) FindAllForTenant(_ context.Context, tenantID uuid.UUID, _ shared.Filter) ([]document.StockTransfer, error) {
	var out []document.StockTransfer
	for _, st := range r.store.transfers {
		if st.TenantID == tenantID {
			out = append(out, *st)
		}
	}
	return out, nil
}

func (r *memTransferRepo) FindInTransit(_ context.Context, tenantID uuid.UUID, _ shared.Filter) ([]document.StockTransfer, error) {
	var out []document.StockTransfer
	for _, st := range r.store.transfers {
		if st.TenantID == tenantID && st.Status == document.StockTransferStatusInTransit {
			out = append(out, *st)
		}
	}
	return out, nil
}

func (r *memTransferRepo) Save(_ context.Context, st *document.StockTransfer) error {
	r.store.transfers[st.ID] = st
	return nil
}

func (r *memTransferRepo) SaveWithLock(_ context.Context, st *document.StockTransfer) error {
	r.store.transfers[st.ID] = st
	return nil
}

type memTakeRepo struct{ store *memStore }

func (r *memTakeRepo) FindByIDForTenant(_ context.Context, tenantID, id uuid.UUID) (*document.StockTake, error) {
	if st, ok := r.store.takes[id]; ok && st.TenantID == tenantID {
		return st, nil
	}
	return nil, shared.ErrNotFound
}

func (r *memTakeRepo) FindByNumber(_ context.Context, tenantID uuid.UUID, number string) (*document.StockTake, error) {
	for _, st := range r.store.takes {
		if st.TenantID == tenantID && st.TakeNumber == number {
			return st, nil
		}
	}
	return nil, shared.ErrNotFound
}

func (r *memTakeRepo) FindAllForTenant(_ context.Context, tenantID uuid.UUID, _ shared.Filter) ([]document.StockTake, error) {
	var out []document.StockTake
	for _, st := range r.store.takes {
		if st.TenantID == tenantID {
			out = append(out, *st)
		}
	}
	return out, nil
}

func (r *memTakeRepo) Save(_ context.Context, st *document.StockTake) error {
	r.store.takes[st.ID] = st
	return nil
}

func (r *memTakeRepo) SaveWithLock(_ context.Context, st *document.StockTake) error {
	r.store.takes[st.ID] = st
	return nil
}

type memReconRepo struct{ store *memStore }

func (r *memReconRepo) FindByIDForTenant(_ context.Context, tenantID, id uuid.UUID) (*document.Reconciliation, error) {
	if rec, ok := r.store.recons[id]; ok && rec.TenantID == tenantID {
		return rec, nil
	}
	return nil, shared.ErrNotFound
}

func (r *memReconRepo) FindByNumber(_ context.Context, tenantID uuid.UUID, number string) (*document.Reconciliation, error) {
	for _, rec := range r.store.recons {
		if rec.TenantID == tenantID && rec.ReconNumber == number {
			return rec, nil
		}
	}
	return nil, shared.ErrNotFound
}

func (r *memReconRepo) FindAllForTenant(_ context.Context, tenantID uuid.UUID, _ shared.Filter) ([]document.Reconciliation, error) {
	var out []document.Reconciliation
	for _, rec := range r.store.recons {
		if rec.TenantID == tenantID {
			out = append(out, *rec)
		}
	}
	return out, nil
}

func (r *memReconRepo) Save(_ context.Context, rec *document.Reconciliation) error {
	r.store.recons[rec.ID] = rec
	return nil
}

func (r *memReconRepo) SaveWithLock(_ context.Context, rec *document.Reconciliation) error {
	r.store.recons[rec.ID] = rec
	return nil
}

type memReturnRepo struct{ store *memStore }

func (r *memReturnRepo) FindByIDForTenant(_ context.Context, tenantID, id uuid.UUID) (*document.ReturnAuthorization, error) {
	if rma, ok := r.store.returns[id]; ok && rma.TenantID == tenantID {
		return rma, nil
	}
	return nil, shared.ErrNotFound
}

func (r *memReturnRepo) FindByNumber(_ context.Context, tenantID uuid.UUID, number string) (*document.ReturnAuthorization, error) {
	for _, rma := range r.store.returns {
		if rma.TenantID == tenantID && rma.ReturnNumber == number {
			return rma, nil
		}
	}
	return nil, shared.ErrNotFound
}

func (r *memReturnRepo) FindAllForTenant(_ context.Context, tenantID uuid.UUID, _ shared.Filter) ([]document.ReturnAuthorization, error) {
	var out []document.ReturnAuthorization
	for _, rma := range r.store.returns {
		if rma.TenantID == tenantID {
			out = append(out, *rma)
		}
	}
	return out, nil
}

func (r *memReturnRepo) FindByStatus(_ context.Context, tenantID uuid.UUID, status document.ReturnAuthorizationStatus, _ shared.Filter) ([]document.ReturnAuthorization, error) {
	var out []document.ReturnAuthorization
	for _, rma := range r.store.returns {
		if rma.TenantID == tenantID && rma.Status == status {
			out = append(out, *rma)
		}
	}
	return out, nil
}

func (r *memReturnRepo) Save(_ context.Context, rma *document.ReturnAuthorization) error {
	r.store.returns[rma.ID] = rma
	return nil
}

func (r *memReturnRepo) SaveWithLock(_ context.Context, rma *document.ReturnAuthorization) error {
	r.store.returns[rma.ID] = rma
	return nil
}

type memAdjustmentRepo struct{ store *memStore }

func (r *memAdjustmentRepo) Record(_ context.Context, adj *document.StockAdjustment) error {
	r.store.adjustments = append(r.store.adjustments, adj)
	return nil
}

func (r *memAdjustmentRepo) FindBySource(_ context.Context, tenantID, sourceID uuid.UUID) ([]document.StockAdjustment, error) {
	var out []document.StockAdjustment
	for _, adj := range r.store.adjustments {
		if adj.TenantID == tenantID && adj.SourceID == sourceID {
			out = append(out, *adj)
		}
	}
	return out, nil
}

func (r *memAdjustmentRepo) FindByProduct(_ context.Context, tenantID, productID uuid.UUID, _ shared.Filter) ([]document.StockAdjustment, error) {
	var out []document.StockAdjustment
	for _, adj := range r.store.adjustments {
		if adj.TenantID == tenantID && adj.ProductID == productID {
			out = append(out, *adj)
		}
	}
	return out, nil
}

func testConfig() Config {
	return DefaultConfig()
}

func testLogger() *zap.Logger {
	return zap.NewNop()
}
