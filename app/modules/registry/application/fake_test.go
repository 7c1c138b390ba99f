package registryservice

import (
	"context"
	"time"

	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/shopspring/decimal"

	accountdb "github.com/trustvector/scorer/app/modules/account/infrastructure/repositories"
	registrydomain "github.com/trustvector/scorer/app/modules/registry/domain"
	registrydb "github.com/trustvector/scorer/app/modules/registry/infrastructure/repositories"
)

// ------------------------
// Fake repositories
// ------------------------

// FakePassportRepo provides a programmable stub for the passport repository.
// Inject behavior per method and inspect calls via Trace.
type FakePassportRepo struct {
	trace []string

	UpsertFunc       func(ctx context.Context, address string, communityID int64) (*registrydb.Passport, error)
	GetByAddressFunc func(ctx context.Context, address string, communityID int64) (*registrydb.Passport, error)
}

func (f *FakePassportRepo) record(step string) {
	f.trace = append(f.trace, step)
}

func (f *FakePassportRepo) Trace() []string {
	out := make([]string, len(f.trace))
	copy(out, f.trace)
	return out
}

func (f *FakePassportRepo) Upsert(ctx context.Context, address string, communityID int64) (*registrydb.Passport, error) {
	f.record("Upsert")
	if f.UpsertFunc != nil {
		return f.UpsertFunc(ctx, address, communityID)
	}
	return &registrydb.Passport{ID: 1, Address: address, CommunityID: communityID}, nil
}

func (f *FakePassportRepo) GetByAddress(ctx context.Context, address string, communityID int64) (*registrydb.Passport, error) {
	f.record("GetByAddress")
	if f.GetByAddressFunc != nil {
		return f.GetByAddressFunc(ctx, address, communityID)
	}
	return &registrydb.Passport{ID: 1, Address: address, CommunityID: communityID}, nil
}

var _ registrydb.PassportRepository = (*FakePassportRepo)(nil)

// FakeStampRepo provides a programmable stub for the stamp repository.
type FakeStampRepo struct {
	trace []string

	CreateBatchFunc    func(ctx context.Context, stamps []*registrydb.Stamp) error
	ListByPassportFunc func(ctx context.Context, passportID int64) ([]*registrydb.Stamp, error)
	ListCursorDescFunc func(ctx context.Context, address string, direction registrydomain.Direction, anchorID int64, limit int) ([]*registrydb.Stamp, error)
	ExistsBelowFunc    func(ctx context.Context, address string, id int64) (bool, error)
	ExistsAboveFunc    func(ctx context.Context, address string, id int64) (bool, error)
}

func (f *FakeStampRepo) record(step string) {
	f.trace = append(f.trace, step)
}

func (f *FakeStampRepo) Trace() []string {
	out := make([]string, len(f.trace))
	copy(out, f.trace)
	return out
}

func (f *FakeStampRepo) CreateBatch(ctx context.Context, stamps []*registrydb.Stamp) error {
	f.record("CreateBatch")
	if f.CreateBatchFunc != nil {
		return f.CreateBatchFunc(ctx, stamps)
	}
	return nil
}

func (f *FakeStampRepo) ListByPassport(ctx context.Context, passportID int64) ([]*registrydb.Stamp, error) {
	f.record("ListByPassport")
	if f.ListByPassportFunc != nil {
		return f.ListByPassportFunc(ctx, passportID)
	}
	return nil, nil
}

func (f *FakeStampRepo) ListCursorDesc(ctx context.Context, address string, direction registrydomain.Direction, anchorID int64, limit int) ([]*registrydb.Stamp, error) {
	f.record("ListCursorDesc")
	if f.ListCursorDescFunc != nil {
		return f.ListCursorDescFunc(ctx, address, direction, anchorID, limit)
	}
	return nil, nil
}

func (f *FakeStampRepo) ExistsBelow(ctx context.Context, address string, id int64) (bool, error) {
	f.record("ExistsBelow")
	if f.ExistsBelowFunc != nil {
		return f.ExistsBelowFunc(ctx, address, id)
	}
	return false, nil
}

func (f *FakeStampRepo) ExistsAbove(ctx context.Context, address string, id int64) (bool, error) {
	f.record("ExistsAbove")
	if f.ExistsAboveFunc != nil {
		return f.ExistsAboveFunc(ctx, address, id)
	}
	return false, nil
}

var _ registrydb.StampRepository = (*FakeStampRepo)(nil)

// FakeScoreRepo provides a programmable stub for the score repository.
type FakeScoreRepo struct {
	trace []string

	UpsertProcessingFunc func(ctx context.Context, passportID int64) (*registrydb.Score, error)
	FinalizeDoneFunc     func(ctx context.Context, passportID int64, score decimal.Decimal, evidence []byte) error
	FinalizeErrorFunc    func(ctx context.Context, passportID int64, errDetail string) error
	GetByAddressFunc     func(ctx context.Context, address string, communityID int64) (*registrydb.Score, error)
	ListByCommunityFunc  func(ctx context.Context, communityID int64, address string, limit, offset int) ([]*registrydb.Score, error)
	ListCursorAscFunc    func(ctx context.Context, filter registrydb.ScoreCursorFilter, direction registrydomain.Direction, anchorID int64, limit int) ([]*registrydb.Score, error)
	ExistsAboveFunc      func(ctx context.Context, filter registrydb.ScoreCursorFilter, id int64) (bool, error)
	ExistsBelowFunc      func(ctx context.Context, filter registrydb.ScoreCursorFilter, id int64) (bool, error)
}

func (f *FakeScoreRepo) record(step string) {
	f.trace = append(f.trace, step)
}

func (f *FakeScoreRepo) Trace() []string {
	out := make([]string, len(f.trace))
	copy(out, f.trace)
	return out
}

func (f *FakeScoreRepo) UpsertProcessing(ctx context.Context, passportID int64) (*registrydb.Score, error) {
	f.record("UpsertProcessing")
	if f.UpsertProcessingFunc != nil {
		return f.UpsertProcessingFunc(ctx, passportID)
	}
	return &registrydb.Score{ID: 1, PassportID: passportID, Status: string(registrydomain.StatusProcessing)}, nil
}

func (f *FakeScoreRepo) FinalizeDone(ctx context.Context, passportID int64, score decimal.Decimal, evidence []byte) error {
	f.record("FinalizeDone")
	if f.FinalizeDoneFunc != nil {
		return f.FinalizeDoneFunc(ctx, passportID, score, evidence)
	}
	return nil
}

func (f *FakeScoreRepo) FinalizeError(ctx context.Context, passportID int64, errDetail string) error {
	f.record("FinalizeError")
	if f.FinalizeErrorFunc != nil {
		return f.FinalizeErrorFunc(ctx, passportID, errDetail)
	}
	return nil
}

func (f *FakeScoreRepo) GetByAddress(ctx context.Context, address string, communityID int64) (*registrydb.Score, error) {
	f.record("GetByAddress")
	if f.GetByAddressFunc != nil {
		return f.GetByAddressFunc(ctx, address, communityID)
	}
	return &registrydb.Score{ID: 1, Status: string(registrydomain.StatusProcessing)}, nil
}

func (f *FakeScoreRepo) ListByCommunity(ctx context.Context, communityID int64, address string, limit, offset int) ([]*registrydb.Score, error) {
	f.record("ListByCommunity")
	if f.ListByCommunityFunc != nil {
		return f.ListByCommunityFunc(ctx, communityID, address, limit, offset)
	}
	return nil, nil
}

func (f *FakeScoreRepo) ListCursorAsc(ctx context.Context, filter registrydb.ScoreCursorFilter, direction registrydomain.Direction, anchorID int64, limit int) ([]*registrydb.Score, error) {
	f.record("ListCursorAsc")
	if f.ListCursorAscFunc != nil {
		return f.ListCursorAscFunc(ctx, filter, direction, anchorID, limit)
	}
	return nil, nil
}

func (f *FakeScoreRepo) ExistsAbove(ctx context.Context, filter registrydb.ScoreCursorFilter, id int64) (bool, error) {
	f.record("ExistsAbove")
	if f.ExistsAboveFunc != nil {
		return f.ExistsAboveFunc(ctx, filter, id)
	}
	return false, nil
}

func (f *FakeScoreRepo) ExistsBelow(ctx context.Context, filter registrydb.ScoreCursorFilter, id int64) (bool, error) {
	f.record("ExistsBelow")
	if f.ExistsBelowFunc != nil {
		return f.ExistsBelowFunc(ctx, filter, id)
	}
	return false, nil
}

var _ registrydb.ScoreRepository = (*FakeScoreRepo)(nil)

// FakeCommunityRepo provides a programmable stub for the community repository.
type FakeCommunityRepo struct {
	trace []string

	GetForAccountFunc func(ctx context.Context, id, accountID int64) (*accountdb.Community, error)
	GetFunc           func(ctx context.Context, id int64) (*accountdb.Community, error)
	CreateFunc        func(ctx context.Context, community *accountdb.Community) error
}

func (f *FakeCommunityRepo) record(step string) {
	f.trace = append(f.trace, step)
}

func (f *FakeCommunityRepo) Trace() []string {
	out := make([]string, len(f.trace))
	copy(out, f.trace)
	return out
}

func (f *FakeCommunityRepo) GetForAccount(ctx context.Context, id, accountID int64) (*accountdb.Community, error) {
	f.record("GetForAccount")
	if f.GetForAccountFunc != nil {
		return f.GetForAccountFunc(ctx, id, accountID)
	}
	return &accountdb.Community{ID: id, AccountID: accountID}, nil
}

func (f *FakeCommunityRepo) Get(ctx context.Context, id int64) (*accountdb.Community, error) {
	f.record("Get")
	if f.GetFunc != nil {
		return f.GetFunc(ctx, id)
	}
	return &accountdb.Community{ID: id}, nil
}

func (f *FakeCommunityRepo) Create(ctx context.Context, community *accountdb.Community) error {
	f.record("Create")
	if f.CreateFunc != nil {
		return f.CreateFunc(ctx, community)
	}
	return nil
}

var _ accountdb.CommunityRepository = (*FakeCommunityRepo)(nil)

// FakeNonceRepo provides a programmable stub for the nonce repository.
type FakeNonceRepo struct {
	trace []string

	CreateFunc func(ctx context.Context, ttl time.Duration) (*accountdb.Nonce, error)
	UseFunc    func(ctx context.Context, nonce string) error
}

func (f *FakeNonceRepo) record(step string) {
	f.trace = append(f.trace, step)
}

func (f *FakeNonceRepo) Trace() []string {
	out := make([]string, len(f.trace))
	copy(out, f.trace)
	return out
}

func (f *FakeNonceRepo) Create(ctx context.Context, ttl time.Duration) (*accountdb.Nonce, error) {
	f.record("Create")
	if f.CreateFunc != nil {
		return f.CreateFunc(ctx, ttl)
	}
	return &accountdb.Nonce{Nonce: "test-nonce", ExpiresAt: time.Now().Add(ttl)}, nil
}

func (f *FakeNonceRepo) Use(ctx context.Context, nonce string) error {
	f.record("Use")
	if f.UseFunc != nil {
		return f.UseFunc(ctx, nonce)
	}
	return nil
}

var _ accountdb.NonceRepository = (*FakeNonceRepo)(nil)

// ------------------------
// Fake collaborators
// ------------------------

// FakeQueue provides a programmable stub for the scoring queue.
type FakeQueue struct {
	trace []string

	EnqueueScorePassportFunc func(ctx context.Context, communityID int64, address string) error
}

func (f *FakeQueue) record(step string) {
	f.trace = append(f.trace, step)
}

func (f *FakeQueue) Trace() []string {
	out := make([]string, len(f.trace))
	copy(out, f.trace)
	return out
}

func (f *FakeQueue) EnqueueScorePassport(ctx context.Context, communityID int64, address string) error {
	f.record("EnqueueScorePassport")
	if f.EnqueueScorePassportFunc != nil {
		return f.EnqueueScorePassportFunc(ctx, communityID, address)
	}
	return nil
}

var _ QueueService = (*FakeQueue)(nil)

// FakeRecoverer provides a programmable stub for signature recovery.
type FakeRecoverer struct {
	RecoverAddressFunc func(message, signature string) (string, error)
}

func (f *FakeRecoverer) RecoverAddress(message, signature string) (string, error) {
	if f.RecoverAddressFunc != nil {
		return f.RecoverAddressFunc(message, signature)
	}
	return "", nil
}

// FakePublisher captures published messages by topic.
type FakePublisher struct {
	Published map[string][]*message.Message

	PublishFunc func(topic string, messages ...*message.Message) error
}

func NewFakePublisher() *FakePublisher {
	return &FakePublisher{Published: map[string][]*message.Message{}}
}

func (f *FakePublisher) Publish(topic string, messages ...*message.Message) error {
	if f.PublishFunc != nil {
		return f.PublishFunc(topic, messages...)
	}
	f.Published[topic] = append(f.Published[topic], messages...)
	return nil
}

func (f *FakePublisher) Close() error { return nil }
