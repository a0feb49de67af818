package address

import (
	"context"

	"fraddriso20022/internal/logger"
	"fraddriso20022/internal/metrics"
	"fraddriso20022/internal/utils"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// Service is the address book: it validates, converts and stores addresses.
type Service interface {
	List(ctx context.Context) ([]*ISOAddress, error)
	Get(ctx context.Context, id string) (*ISOAddress, error)

	Create(ctx context.Context, input CreateAddressInput) (*ISOAddress, error)
	CreateISO(ctx context.Context, addr ISOAddress) (*ISOAddress, error)
	Update(ctx context.Context, input UpdateAddressInput) (*ISOAddress, error)
	Delete(ctx context.Context, id string) error

	ConvertStored(ctx context.Context, id string) (*FrenchAddress, error)

	ToISO(addr FrenchAddress, kind Kind) ISOAddress
	ToFrench(addr ISOAddress) FrenchAddress
}

type service struct {
	repo    Repository
	metrics *metrics.Metrics
	newID   func() string
}

// NewService wires the repository and metrics. m may be nil.
func NewService(repo Repository, m *metrics.Metrics) Service {
	return &service{
		repo:    repo,
		metrics: m,
		newID:   func() string { return uuid.New().String() },
	}
}

func (s *service) List(ctx context.Context) ([]*ISOAddress, error) {
	log := logger.FromCtx(ctx).With(
		zap.String("service", "Address"),
		zap.String("method", "List"),
	)

	timer := metrics.StartTimer()
	res, err := s.repo.FindAll(ctx)
	s.metrics.ObserveStorage("find_all", err, timer.Duration())
	if err != nil {
		log.Error("failed to list addresses", zap.Error(err))
		return nil, err
	}

	log.Debug("listed addresses", zap.Int("count", len(res)))
	return res, nil
}

func (s *service) Get(ctx context.Context, id string) (*ISOAddress, error) {
	log := logger.FromCtx(ctx).With(
		zap.String("service", "Address"),
		zap.String("method", "Get"),
		zap.String("address_id", id),
	)

	timer := metrics.StartTimer()
	addr, err := s.repo.FindByID(ctx, id)
	s.metrics.ObserveStorage("find", err, timer.Duration())
	if err != nil {
		log.Warn("address lookup failed", zap.Error(err))
		return nil, err
	}

	return addr, nil
}

func (s *service) Create(ctx context.Context, input CreateAddressInput) (*ISOAddress, error) {
	lines := input.Lines
	lines.ID = s.newID()

	log := logger.FromCtx(ctx).With(
		zap.String("service", "Address"),
		zap.String("method", "Create"),
		zap.String("address_id", lines.ID),
		zap.Stringer("kind", input.Kind),
	)

	if err := s.validateFrench(lines); err != nil {
		log.Warn("rejected french address", zap.Error(err))
		return nil, err
	}

	iso := s.ToISO(lines, input.Kind)
	if err := s.save(ctx, &iso); err != nil {
		log.Error("failed to save address", zap.Error(err))
		return nil, err
	}

	log.Info("address created")
	return &iso, nil
}

func (s *service) CreateISO(ctx context.Context, addr ISOAddress) (*ISOAddress, error) {
	if addr.ID == "" {
		addr.ID = s.newID()
	}

	log := logger.FromCtx(ctx).With(
		zap.String("service", "Address"),
		zap.String("method", "CreateISO"),
		zap.String("address_id", addr.ID),
	)

	if err := s.validateISO(addr); err != nil {
		log.Warn("rejected iso address", zap.Error(err))
		return nil, err
	}

	if err := s.save(ctx, &addr); err != nil {
		log.Error("failed to save address", zap.Error(err))
		return nil, err
	}

	log.Info("address created")
	return &addr, nil
}

// Update renders the stored address as French lines, replaces the lines the
// input sets, and stores the re-converted result under the same ID.
func (s *service) Update(ctx context.Context, input UpdateAddressInput) (*ISOAddress, error) {
	log := logger.FromCtx(ctx).With(
		zap.String("service", "Address"),
		zap.String("method", "Update"),
		zap.String("address_id", input.AddressID),
	)

	existing, err := s.Get(ctx, input.AddressID)
	if err != nil {
		return nil, err
	}

	current := ToFrench(*existing)
	patch := input.Lines
	merged := FrenchAddress{
		ID:    existing.ID,
		Line1: utils.FirstNonNil(patch.Line1, current.Line1),
		Line2: utils.FirstNonNil(patch.Line2, current.Line2),
		Line3: utils.FirstNonNil(patch.Line3, current.Line3),
		Line4: utils.FirstNonNil(patch.Line4, current.Line4),
		Line5: utils.FirstNonNil(patch.Line5, current.Line5),
		Line6: utils.FirstNonNil(patch.Line6, current.Line6),
		Line7: utils.FirstNonNil(patch.Line7, current.Line7),
	}

	if err := s.validateFrench(merged); err != nil {
		log.Warn("rejected updated address", zap.Error(err))
		return nil, err
	}

	iso := s.ToISO(merged, input.Kind)

	timer := metrics.StartTimer()
	err = s.repo.Update(ctx, &iso)
	s.metrics.ObserveStorage("update", err, timer.Duration())
	if err != nil {
		log.Error("failed to update address", zap.Error(err))
		return nil, err
	}

	log.Info("address updated")
	return &iso, nil
}

func (s *service) Delete(ctx context.Context, id string) error {
	log := logger.FromCtx(ctx).With(
		zap.String("service", "Address"),
		zap.String("method", "Delete"),
		zap.String("address_id", id),
	)

	timer := metrics.StartTimer()
	err := s.repo.Delete(ctx, id)
	s.metrics.ObserveStorage("delete", err, timer.Duration())
	if err != nil {
		log.Warn("failed to delete address", zap.Error(err))
		return err
	}

	log.Info("address deleted")
	return nil
}

func (s *service) ConvertStored(ctx context.Context, id string) (*FrenchAddress, error) {
	addr, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	fr := s.ToFrench(*addr)
	return &fr, nil
}

func (s *service) ToISO(addr FrenchAddress, kind Kind) ISOAddress {
	s.metrics.IncConversion(metrics.DirectionToISO, kind.String())
	return ToISO(addr, kind)
}

func (s *service) ToFrench(addr ISOAddress) FrenchAddress {
	s.metrics.IncConversion(metrics.DirectionToFrench, addr.Kind.String())
	return ToFrench(addr)
}

func (s *service) save(ctx context.Context, addr *ISOAddress) error {
	timer := metrics.StartTimer()
	err := s.repo.Save(ctx, addr)
	s.metrics.ObserveStorage("save", err, timer.Duration())
	return err
}

func (s *service) validateFrench(addr FrenchAddress) error {
	err := ValidateFrench(addr)
	if err != nil {
		s.metrics.IncValidationFailure("french", FieldOf(err))
	}
	return err
}

func (s *service) validateISO(addr ISOAddress) error {
	err := ValidateISO(addr)
	if err != nil {
		s.metrics.IncValidationFailure("iso", FieldOf(err))
	}
	return err
}
