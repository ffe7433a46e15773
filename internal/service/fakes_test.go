package service

import (
	"context"
	"sort"

	"github.com/jackc/pgx/v5"

	"github.com/spec-kit/query-tracker/internal/domain"
	"github.com/spec-kit/query-tracker/internal/repository"
)

// fakeQueryRepo is an in-memory QueryRepository. Reads return copies so the
// engine's read-then-write behavior is exercised for real.
type fakeQueryRepo struct {
	nextID  int64
	records map[int64]domain.Query
}

func newFakeQueryRepo() *fakeQueryRepo {
	return &fakeQueryRepo{records: map[int64]domain.Query{}}
}

func (f *fakeQueryRepo) Insert(_ context.Context, q *domain.Query) error {
	f.nextID++
	q.ID = f.nextID
	f.records[q.ID] = *q
	return nil
}

func (f *fakeQueryRepo) Update(_ context.Context, q *domain.Query) error {
	if _, ok := f.records[q.ID]; !ok {
		return pgx.ErrNoRows
	}
	f.records[q.ID] = *q
	return nil
}

func (f *fakeQueryRepo) GetByID(_ context.Context, id int64) (*domain.Query, error) {
	record, ok := f.records[id]
	if !ok {
		return nil, pgx.ErrNoRows
	}
	copied := record
	return &copied, nil
}

func (f *fakeQueryRepo) GetAll(context.Context) ([]domain.Query, error) {
	result := make([]domain.Query, 0, len(f.records))
	for _, record := range f.records {
		result = append(result, record)
	}
	sort.Slice(result, func(i, j int) bool {
		return result[i].CreatedAt.After(result[j].CreatedAt)
	})
	return result, nil
}

func (f *fakeQueryRepo) ListByCreator(ctx context.Context, username string) ([]domain.Query, error) {
	all, _ := f.GetAll(ctx)
	var result []domain.Query
	for _, record := range all {
		if record.CreatedBy == username {
			result = append(result, record)
		}
	}
	return result, nil
}

func (f *fakeQueryRepo) ListByAssignee(ctx context.Context, username string) ([]domain.Query, error) {
	all, _ := f.GetAll(ctx)
	var result []domain.Query
	for _, record := range all {
		if record.AssignedTo != nil && *record.AssignedTo == username {
			result = append(result, record)
		}
	}
	return result, nil
}

// fakeUserRepo is an in-memory identity store keyed by username, matching
// the users table primary key.
type fakeUserRepo struct {
	users map[string]domain.User
}

func newFakeUserRepo() *fakeUserRepo {
	return &fakeUserRepo{users: map[string]domain.User{}}
}

func (f *fakeUserRepo) Create(_ context.Context, user *domain.User) error {
	if _, ok := f.users[user.Username]; ok {
		return repository.ErrDuplicateKey
	}
	f.users[user.Username] = *user
	return nil
}

func (f *fakeUserRepo) Get(_ context.Context, username string, role domain.Role) (*domain.User, error) {
	user, ok := f.users[username]
	if !ok || user.Role != role {
		return nil, pgx.ErrNoRows
	}
	copied := user
	return &copied, nil
}

func (f *fakeUserRepo) UpdatePassword(_ context.Context, username string, role domain.Role, hash string) (bool, error) {
	user, ok := f.users[username]
	if !ok || user.Role != role {
		return false, nil
	}
	user.CredentialHash = hash
	f.users[username] = user
	return true, nil
}

func (f *fakeUserRepo) ListUsernames(_ context.Context, role domain.Role) ([]string, error) {
	var result []string
	for username, user := range f.users {
		if user.Role == role {
			result = append(result, username)
		}
	}
	sort.Strings(result)
	return result, nil
}

// fakeCommentRepo is an in-memory CommentRepository.
type fakeCommentRepo struct {
	nextID   int64
	comments []domain.Comment
}

func (f *fakeCommentRepo) Create(_ context.Context, comment *domain.Comment) error {
	f.nextID++
	comment.ID = f.nextID
	f.comments = append(f.comments, *comment)
	return nil
}

func (f *fakeCommentRepo) ListByQuery(_ context.Context, queryID int64) ([]domain.Comment, error) {
	var result []domain.Comment
	for _, comment := range f.comments {
		if comment.QueryID == queryID {
			result = append(result, comment)
		}
	}
	return result, nil
}
