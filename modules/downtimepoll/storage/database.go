package storage

import (
	"context"
	"errors"
	"github.com/lordralex/downtimepoll/api/logger"
	"github.com/lordralex/downtimepoll/modules/downtimepoll/poll"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
	"time"
)

type PollState struct {
	Scope     string `gorm:"primaryKey;size:64"`
	Open      bool
	UpdatedAt time.Time
}

func (PollState) TableName() string {
	return "downtime_poll_states"
}

type Guess struct {
	ID          uint   `gorm:"primaryKey"`
	Scope       string `gorm:"size:64;uniqueIndex:guess_idx;index"`
	SubmitterId string `gorm:"size:64;uniqueIndex:guess_idx"`
	DisplayName string
	Time        string `gorm:"size:5"`
	SubmittedAt time.Time
}

func (Guess) TableName() string {
	return "downtime_guesses"
}

// DatabaseStore keeps polls in SQL through gorm. The connection must be opened
// with TranslateError so unique index violations surface as
// gorm.ErrDuplicatedKey.
type DatabaseStore struct {
	db    *gorm.DB
	// bound is set inside Atomic, where db is the transaction
	bound string
}

func NewDatabaseStore(db *gorm.DB) *DatabaseStore {
	return &DatabaseStore{db: db}
}

func Migrate(db *gorm.DB) error {
	return db.AutoMigrate(&PollState{}, &Guess{})
}

func (s *DatabaseStore) check(scope string) error {
	if s.bound != "" && s.bound != scope {
		return poll.ErrScopeMismatch
	}
	return nil
}

func (s *DatabaseStore) IsOpen(ctx context.Context, scope string) (bool, error) {
	if err := s.check(scope); err != nil {
		return false, err
	}

	state := &PollState{}
	err := s.db.WithContext(ctx).Where(&PollState{Scope: scope}).First(state).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return false, nil
	}
	if err != nil {
		return false, poll.Unavailable(err)
	}
	return state.Open, nil
}

func (s *DatabaseStore) SetOpen(ctx context.Context, scope string, open bool) error {
	if err := s.check(scope); err != nil {
		return err
	}

	err := s.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "scope"}},
		DoUpdates: clause.AssignmentColumns([]string{"open", "updated_at"}),
	}).Create(&PollState{Scope: scope, Open: open}).Error
	return poll.Unavailable(err)
}

func (s *DatabaseStore) Add(ctx context.Context, scope string, g poll.Guess) (poll.Guess, error) {
	if err := s.check(scope); err != nil {
		return poll.Guess{}, err
	}

	if g.SubmittedAt.IsZero() {
		g.SubmittedAt = time.Now()
	}
	record := &Guess{
		Scope:       scope,
		SubmitterId: g.SubmitterID,
		DisplayName: g.DisplayName,
		Time:        g.Time.String(),
		SubmittedAt: g.SubmittedAt.UTC(),
	}
	err := s.db.WithContext(ctx).Create(record).Error
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return poll.Guess{}, poll.ErrAlreadySubmitted
	}
	if err != nil {
		return poll.Guess{}, poll.Unavailable(err)
	}

	g.Seq = int64(record.ID)
	return g, nil
}

func (s *DatabaseStore) Clear(ctx context.Context, scope string) error {
	if err := s.check(scope); err != nil {
		return err
	}

	err := s.db.WithContext(ctx).Where(&Guess{Scope: scope}).Delete(&Guess{}).Error
	return poll.Unavailable(err)
}

func (s *DatabaseStore) List(ctx context.Context, scope string) ([]poll.Guess, error) {
	if err := s.check(scope); err != nil {
		return nil, err
	}

	var records []Guess
	err := s.db.WithContext(ctx).Where(&Guess{Scope: scope}).Order("id").Find(&records).Error
	if err != nil {
		return nil, poll.Unavailable(err)
	}

	result := make([]poll.Guess, 0, len(records))
	for _, v := range records {
		parsed, err := poll.Parse(v.Time)
		if err != nil {
			logger.Err().Printf("skipping guess of %s in scope %s: %s", v.SubmitterId, scope, err)
			continue
		}
		result = append(result, poll.Guess{
			SubmitterID: v.SubmitterId,
			DisplayName: v.DisplayName,
			Time:        parsed,
			SubmittedAt: v.SubmittedAt,
			Seq:         int64(v.ID),
		})
	}
	return result, nil
}

// Atomic runs fn in a transaction holding the row lock of the scope's state,
// which serializes every transaction on that scope.
func (s *DatabaseStore) Atomic(ctx context.Context, scope string, fn func(tx poll.Store) error) error {
	if err := s.check(scope); err != nil {
		return err
	}
	if s.bound != "" {
		return fn(s)
	}

	var fnErr error
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		state := &PollState{}
		err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).Where(&PollState{Scope: scope}).First(state).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			// first use of the scope, create the row so there is something to lock
			err = tx.Clauses(clause.OnConflict{DoNothing: true}).Create(&PollState{Scope: scope}).Error
			if err == nil {
				err = tx.Clauses(clause.Locking{Strength: "UPDATE"}).Where(&PollState{Scope: scope}).First(state).Error
			}
		}
		if err != nil {
			return err
		}

		fnErr = fn(&DatabaseStore{db: tx, bound: scope})
		return fnErr
	})

	if fnErr != nil {
		return fnErr
	}
	return poll.Unavailable(err)
}
