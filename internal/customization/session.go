package customization

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/angelmondragon/atelier-storefront/pkg/debounce"
	"github.com/angelmondragon/atelier-storefront/pkg/enums"
	pkgerrors "github.com/angelmondragon/atelier-storefront/pkg/errors"
	"github.com/angelmondragon/atelier-storefront/pkg/logger"
	"github.com/angelmondragon/atelier-storefront/pkg/metrics"
	"github.com/angelmondragon/atelier-storefront/pkg/storage"
)

const (
	DefaultPriceDelay   = 150 * time.Millisecond
	DefaultPersistDelay = 500 * time.Millisecond
)

// CartSink receives the finalized item when a session completes.
type CartSink interface {
	AddCustomized(ctx context.Context, clientID string, item LineItem) error
}

// SessionParams groups the collaborators of a session.
type SessionParams struct {
	ClientID     string
	Product      Product
	Schema       Schema
	Storage      *storage.ClientStorage
	Cart         CartSink
	Scheduler    debounce.Scheduler
	PriceDelay   time.Duration
	PersistDelay time.Duration
	Metrics      *metrics.Storefront
	Logger       *logger.Logger
	Clock        func() time.Time
}

// Session is the wizard state of one client for one product. Debounced effects run on
// timer goroutines, so every method takes the session lock.
type Session struct {
	mu sync.Mutex

	clientID   string
	product    Product
	schema     Schema
	step       Step
	selections Selections
	price      PriceBreakdown
	completed  bool
	closed     bool
	lastActive time.Time

	priceDebounce   *debounce.Debouncer
	persistDebounce *debounce.Debouncer

	store   *storage.ClientStorage
	cart    CartSink
	metrics *metrics.Storefront
	logg    *logger.Logger
	now     func() time.Time
}

// Snapshot is a consistent copy of the session state.
type Snapshot struct {
	Product    Product
	Schema     Schema
	Step       Step
	Selections Selections
	Price      PriceBreakdown
	Completed  bool
}

// OpenSession starts the wizard at step 1. Selections saved for the same product are
// restored; anything saved for another product is ignored.
func OpenSession(ctx context.Context, params SessionParams) (*Session, error) {
	if params.Storage == nil {
		return nil, pkgerrors.New(pkgerrors.CodeInternal, "session storage is required")
	}
	if params.Cart == nil {
		return nil, pkgerrors.New(pkgerrors.CodeInternal, "cart sink is required")
	}
	if !params.Product.Customizable {
		return nil, pkgerrors.New(pkgerrors.CodeStateConflict, "product is not customizable")
	}
	if params.Schema.Category != params.Product.Category {
		return nil, pkgerrors.New(pkgerrors.CodeInternal, "schema category does not match product")
	}
	if params.PriceDelay <= 0 {
		params.PriceDelay = DefaultPriceDelay
	}
	if params.PersistDelay <= 0 {
		params.PersistDelay = DefaultPersistDelay
	}
	if params.Logger == nil {
		params.Logger = logger.Nop()
	}
	if params.Clock == nil {
		params.Clock = time.Now
	}

	s := &Session{
		clientID:        params.ClientID,
		product:         params.Product,
		schema:          params.Schema,
		step:            FirstStep,
		store:           params.Storage,
		cart:            params.Cart,
		metrics:         params.Metrics,
		logg:            params.Logger,
		now:             params.Clock,
		priceDebounce:   debounce.New(params.PriceDelay, params.Scheduler),
		persistDebounce: debounce.New(params.PersistDelay, params.Scheduler),
	}
	s.lastActive = s.now()

	var saved SessionState
	if s.store.LoadJSON(ctx, storage.KeyActiveCustomization, &saved) && saved.ProductID == s.product.ID {
		s.selections = saved.Customizations
		s.logg.Debug(s.logCtx(ctx), "resumed saved customization")
	}
	s.price = Calculate(s.product.Price, s.selections, s.schema)
	return s, nil
}

func (s *Session) ClientID() string { return s.clientID }

func (s *Session) ProductID() int64 { return s.product.ID }

func (s *Session) Step() Step {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.step
}

// Price returns the last computed breakdown; it trails Select by the price delay.
func (s *Session) Price() PriceBreakdown {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.price
}

func (s *Session) Selections() Selections {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.selections.Clone()
}

func (s *Session) LastActive() time.Time {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.lastActive
}

func (s *Session) Done() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.completed || s.closed
}

func (s *Session) Snapshot() Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	return Snapshot{
		Product:    s.product,
		Schema:     s.schema,
		Step:       s.step,
		Selections: s.selections.Clone(),
		Price:      s.price,
		Completed:  s.completed,
	}
}

// Select sets a single-valued option. An empty value removes the selection, for
// multi-select options too.
func (s *Session) Select(optionID, value string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.ensureActive(); err != nil {
		return err
	}

	opt, err := s.option(optionID)
	if err != nil {
		return err
	}
	switch opt.Type {
	case enums.OptionTypeMultiSelect:
		if value != "" {
			return pkgerrors.New(pkgerrors.CodeValidation, fmt.Sprintf("%s takes a list of values", opt.DisplayName))
		}
	case enums.OptionTypeSelect:
		if value != "" {
			if _, ok := opt.Value(value); !ok {
				return invalidValue(opt, value)
			}
		}
	}

	if value == "" {
		s.selections.Delete(optionID)
	} else {
		sel := Selection{Value: value}
		sel.Price = SelectionPrice(opt, sel)
		s.selections.Set(optionID, sel)
	}
	s.changed()
	return nil
}

// SelectMany replaces the values of a multi-select option. An empty list removes it.
// Duplicates are dropped; a list longer than max_selections is refused.
func (s *Session) SelectMany(optionID string, values []string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.ensureActive(); err != nil {
		return err
	}

	opt, err := s.multiOption(optionID)
	if err != nil {
		return err
	}
	seen := make(map[string]struct{}, len(values))
	clean := make([]string, 0, len(values))
	for _, v := range values {
		if _, ok := opt.Value(v); !ok {
			return invalidValue(opt, v)
		}
		if _, dup := seen[v]; dup {
			continue
		}
		seen[v] = struct{}{}
		clean = append(clean, v)
	}
	if limit := opt.Rules.SelectionLimit(); limit > 0 && len(clean) > limit {
		return selectionLimitError(opt, limit)
	}

	s.setMulti(opt, clean)
	s.changed()
	return nil
}

// Toggle adds or removes one value of a multi-select option. Adding beyond the
// option's max_selections is refused.
func (s *Session) Toggle(optionID, value string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.ensureActive(); err != nil {
		return err
	}

	opt, err := s.multiOption(optionID)
	if err != nil {
		return err
	}
	if _, ok := opt.Value(value); !ok {
		return invalidValue(opt, value)
	}

	current, _ := s.selections.Get(optionID)
	next := make([]string, 0, len(current.Values)+1)
	removed := false
	for _, v := range current.Values {
		if v == value {
			removed = true
			continue
		}
		next = append(next, v)
	}
	if !removed {
		if limit := opt.Rules.SelectionLimit(); limit > 0 && len(current.Values) >= limit {
			return selectionLimitError(opt, limit)
		}
		next = append(next, value)
	}

	s.setMulti(opt, next)
	s.changed()
	return nil
}

// Advance validates the current step and moves forward. On the summary step it completes
// the session, hands the item to the cart and clears the saved progress; the item is returned.
func (s *Session) Advance(ctx context.Context) (*LineItem, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.ensureActive(); err != nil {
		return nil, err
	}
	s.lastActive = s.now()

	result := ValidateStep(s.step, s.selections, s.schema)
	if !result.Valid {
		s.metrics.IncValidationFailure(int(s.step))
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "step validation failed").
			WithDetails(map[string]any{"step": int(s.step), "errors": result.Errors})
	}

	if s.step < LastStep {
		s.step++
		s.metrics.IncTransition("next")
		return nil, nil
	}

	item, err := s.complete(ctx)
	if err != nil {
		return nil, err
	}
	return item, nil
}

// Retreat moves back one step without validation; step 1 stays put.
func (s *Session) Retreat() Step {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.lastActive = s.now()
	if s.completed || s.closed {
		return s.step
	}
	if s.step > FirstStep {
		s.step--
		s.metrics.IncTransition("back")
	}
	return s.step
}

// Close ends the session. With selections present it only proceeds when confirm is true
// and otherwise reports false, leaving everything unchanged.
func (s *Session) Close(ctx context.Context, confirm bool) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.completed || s.closed {
		return true
	}
	if s.selections.Len() > 0 && !confirm {
		return false
	}
	s.closed = true
	s.priceDebounce.Stop()
	s.persistDebounce.Stop()
	s.store.Remove(ctx, storage.KeyActiveCustomization)
	return true
}

// Suspend stops the session without discarding its saved progress. Pending writes are
// flushed first so a later open can resume.
func (s *Session) Suspend() {
	s.persistDebounce.Flush()
	s.mu.Lock()
	defer s.mu.Unlock()
	s.closed = true
	s.priceDebounce.Stop()
}

// FlushPrice runs a pending price recompute now. It must not be called with the lock held.
func (s *Session) FlushPrice() bool {
	return s.priceDebounce.Flush()
}

// FlushPersist writes pending progress now.
func (s *Session) FlushPersist() bool {
	return s.persistDebounce.Flush()
}

func (s *Session) complete(ctx context.Context) (*LineItem, error) {
	price := Calculate(s.product.Price, s.selections, s.schema)
	frozen := s.selections.Clone()
	item := LineItem{
		ID:                fmt.Sprintf("custom_%d_%s", s.product.ID, uuid.NewString()),
		Product:           s.product,
		BasePrice:         price.BasePrice,
		CustomizationCost: price.CustomizationCost,
		TotalPrice:        price.TotalPrice,
		Customizations:    frozen,
		Summary:           FormatSummary(frozen, s.schema),
	}

	if err := s.cart.AddCustomized(ctx, s.clientID, item); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "add customized item to cart")
	}

	s.price = price
	s.completed = true
	s.priceDebounce.Stop()
	s.persistDebounce.Stop()
	s.store.Remove(ctx, storage.KeyActiveCustomization)
	s.metrics.IncTransition("complete")
	s.logg.Info(s.logg.WithField(s.logCtx(ctx), "item_id", item.ID), "customization completed")
	return &item, nil
}

// changed schedules the debounced effects of a selection change. Caller holds the lock.
func (s *Session) changed() {
	s.lastActive = s.now()
	s.priceDebounce.Trigger(s.recomputePrice)
	s.persistDebounce.Trigger(s.persist)
}

func (s *Session) recomputePrice() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.completed || s.closed {
		return
	}
	s.price = Calculate(s.product.Price, s.selections, s.schema)
	s.metrics.IncPriceRecompute()
}

func (s *Session) persist() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.completed || s.closed {
		return
	}
	state := SessionState{
		ProductID:      s.product.ID,
		Step:           s.step,
		Customizations: s.selections.Clone(),
		LastModified:   s.now().UnixMilli(),
	}
	s.store.SaveJSON(context.Background(), storage.KeyActiveCustomization, state)
}

func (s *Session) setMulti(opt Option, values []string) {
	if len(values) == 0 {
		s.selections.Delete(opt.ID)
		return
	}
	sel := Selection{Values: values, Multi: true}
	sel.Price = SelectionPrice(opt, sel)
	s.selections.Set(opt.ID, sel)
}

func (s *Session) option(optionID string) (Option, error) {
	opt, ok := s.schema.Option(optionID)
	if !ok {
		return Option{}, pkgerrors.New(pkgerrors.CodeValidation, fmt.Sprintf("unknown option %q", optionID)).
			WithDetails(map[string]any{"option_id": optionID})
	}
	return opt, nil
}

func (s *Session) multiOption(optionID string) (Option, error) {
	opt, err := s.option(optionID)
	if err != nil {
		return Option{}, err
	}
	if opt.Type != enums.OptionTypeMultiSelect {
		return Option{}, pkgerrors.New(pkgerrors.CodeValidation, fmt.Sprintf("%s takes a single value", opt.DisplayName))
	}
	return opt, nil
}

func (s *Session) ensureActive() error {
	if s.completed {
		return pkgerrors.New(pkgerrors.CodeStateConflict, "customization already completed")
	}
	if s.closed {
		return pkgerrors.New(pkgerrors.CodeStateConflict, "customization session is closed")
	}
	return nil
}

// logCtx reads the step; callers hold s.mu or own the session exclusively.
func (s *Session) logCtx(ctx context.Context) context.Context {
	ctx = s.logg.WithClientID(ctx, s.clientID)
	ctx = s.logg.WithProductID(ctx, s.product.ID)
	return s.logg.WithStep(ctx, int(s.step))
}

func invalidValue(opt Option, value string) error {
	return pkgerrors.New(pkgerrors.CodeValidation, fmt.Sprintf("invalid value %q for %s", value, opt.DisplayName)).
		WithDetails(map[string]any{"option_id": opt.ID, "value": value})
}

func selectionLimitError(opt Option, limit int) error {
	return pkgerrors.New(pkgerrors.CodeValidation, fmt.Sprintf("%s: Maximum %d selections allowed", opt.DisplayName, limit)).
		WithDetails(map[string]any{"option_id": opt.ID, "max_selections": limit})
}

// ValidationErrors extracts the step errors carried by an Advance failure.
func ValidationErrors(err error) []string {
	typed := pkgerrors.As(err)
	if typed == nil || typed.Code() != pkgerrors.CodeValidation {
		return nil
	}
	details, ok := typed.Details().(map[string]any)
	if !ok {
		return nil
	}
	errs, _ := details["errors"].([]string)
	return errs
}
