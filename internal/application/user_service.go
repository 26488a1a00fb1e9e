package application

import (
	"context"
	"encoding/json"
	"errors"
	"expvar"
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/sirupsen/logrus"

	"github.com/oksasatya/go-user-resource-api/internal/domain/entity"
	repo "github.com/oksasatya/go-user-resource-api/internal/domain/repository"
	"github.com/oksasatya/go-user-resource-api/pkg/helpers"
	"github.com/oksasatya/go-user-resource-api/pkg/mailer"
	mailtpl "github.com/oksasatya/go-user-resource-api/pkg/mailer/templates"
	"github.com/oksasatya/go-user-resource-api/pkg/optional"
	"github.com/oksasatya/go-user-resource-api/pkg/validation"
)

const listEpochKey = "users:list:epoch"

const (
	msgEmailTaken  = "has already been taken"
	msgRoleInvalid = "selected role_id is invalid"
)

var listCacheStats = expvar.NewMap("users_list_cache")

func listKey(epoch int64, page, perPage int) string {
	return fmt.Sprintf("users:list:v%d:page:%d:per_page:%d", epoch, page, perPage)
}

type UserService struct {
	Repo       repo.UserRepository
	Roles      repo.RoleRepository
	Cache      Cache
	Index      UserIndexer  // optional
	Mail       Publisher    // optional
	Sessions   SessionStore // optional
	Logger     *logrus.Logger
	Validate   *validator.Validate
	ListOpts   ListOptions
	BcryptCost int
}

func NewUserService(users repo.UserRepository, roles repo.RoleRepository, cache Cache, index UserIndexer, mail Publisher, logger *logrus.Logger, opts ListOptions, bcryptCost int) *UserService {
	if logger == nil {
		logger = logrus.New()
		logger.SetOutput(io.Discard)
	}
	if opts.TTL <= 0 {
		opts.TTL = 60 * time.Second
	}
	return &UserService{
		Repo:       users,
		Roles:      roles,
		Cache:      cache,
		Index:      index,
		Mail:       mail,
		Logger:     logger,
		Validate:   validation.New(),
		ListOpts:   opts,
		BcryptCost: bcryptCost,
	}
}

type CreateUserInput struct {
	Name     string `json:"name" validate:"required,max=255"`
	Email    string `json:"email" validate:"required,email,max=255"`
	Password string `json:"password" validate:"required,pwd"`
	Age      *int   `json:"age" validate:"omitnil,min=0"`
	RoleID   *int64 `json:"role_id" validate:"omitnil,min=1"`

	// BindErrors are per-field decode failures; they replace any rule messages for the same field.
	BindErrors validation.FieldErrors `json:"-" validate:"-"`
}

// UpdateUserInput holds the optional fields of a partial update; absent keys stay untouched.
type UpdateUserInput struct {
	Name   optional.Field[string] `json:"name"`
	Email  optional.Field[string] `json:"email"`
	Age    optional.Field[int]    `json:"age"`
	RoleID optional.Field[int64]  `json:"role_id"`

	BindErrors validation.FieldErrors `json:"-"`
}

func (in UpdateUserInput) empty() bool {
	return !in.Name.Set && !in.Email.Set && !in.Age.Set && !in.RoleID.Set
}

// List returns one page of users, served from the cache while the entry is fresh.
func (s *UserService) List(ctx context.Context, page, perPage int) (*Page, error) {
	page, perPage = s.ListOpts.NormalizePage(page, perPage)

	epoch, err := s.listEpoch(ctx)
	if err != nil {
		return nil, fmt.Errorf("read list epoch: %w", err)
	}
	key := listKey(epoch, page, perPage)

	raw, ok, err := s.Cache.Get(ctx, key)
	if err != nil {
		return nil, fmt.Errorf("read list cache: %w", err)
	}
	if ok {
		var p Page
		if err := json.Unmarshal(raw, &p); err == nil {
			listCacheStats.Add("hits", 1)
			return &p, nil
		}
		s.Logger.WithField("key", key).Warn("discarding undecodable list cache entry")
		if err := s.Cache.Remove(ctx, key); err != nil {
			s.Logger.WithError(err).WithField("key", key).Warn("list cache removal failed")
		}
	}
	listCacheStats.Add("misses", 1)

	users, total, err := s.Repo.List(ctx, perPage, (page-1)*perPage)
	if err != nil {
		return nil, fmt.Errorf("list users: %w", err)
	}
	p := newPage(users, total, page, perPage)

	b, err := json.Marshal(p)
	if err != nil {
		return nil, fmt.Errorf("encode page: %w", err)
	}
	if err := s.Cache.Set(ctx, key, b, s.ListOpts.TTL); err != nil {
		return nil, fmt.Errorf("write list cache: %w", err)
	}
	return p, nil
}

func (s *UserService) Get(ctx context.Context, id int64) (*entity.User, error) {
	u, err := s.Repo.GetByID(ctx, id)
	if errors.Is(err, repo.ErrNotFound) {
		return nil, ErrUserNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get user %d: %w", id, err)
	}
	return u, nil
}

// Create validates every field before touching the store, then inserts with a bcrypt hash.
func (s *UserService) Create(ctx context.Context, in CreateUserInput) (*entity.User, error) {
	in.Name = strings.TrimSpace(in.Name)
	in.Email = strings.TrimSpace(in.Email)

	fe := validation.FieldErrors{}
	if err := s.Validate.Struct(in); err != nil {
		fe.Merge(validation.ToFieldErrors(err))
	}
	fe.Override(in.BindErrors)
	if err := s.checkReferences(ctx, fe, &in.Email, in.RoleID, 0); err != nil {
		return nil, err
	}
	if !fe.Empty() {
		return nil, &ValidationError{Fields: fe}
	}

	hash, err := helpers.HashPasswordCost(in.Password, s.BcryptCost)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}
	u := &entity.User{
		Name:             in.Name,
		Email:            in.Email,
		Password:         hash,
		Age:              in.Age,
		RoleID:           in.RoleID,
		MembershipStatus: entity.MembershipBasic,
	}
	if err := s.Repo.Create(ctx, u); err != nil {
		if ve := constraintError(err); ve != nil {
			return nil, ve
		}
		return nil, fmt.Errorf("create user: %w", err)
	}

	s.Logger.WithField("user_id", u.ID).Info("user created")
	s.afterWrite(ctx)
	s.index(ctx, u)
	s.enqueueMail(ctx, u, mailtpl.Welcome)
	return u, nil
}

// Update applies only the supplied fields. The not-found check runs before any validation.
func (s *UserService) Update(ctx context.Context, id int64, in UpdateUserInput) (*entity.User, error) {
	u, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	fe := validation.FieldErrors{}
	var email *string

	if in.Name.Set {
		in.Name.Value = strings.TrimSpace(in.Name.Value)
		s.checkVar(fe, "name", in.Name.Value, "required,max=255")
	}
	if in.Email.Set {
		in.Email.Value = strings.TrimSpace(in.Email.Value)
		s.checkVar(fe, "email", in.Email.Value, "required,email,max=255")
		email = &in.Email.Value
	}
	if in.Age.Present() {
		s.checkVar(fe, "age", in.Age.Value, "min=0")
	}
	if in.RoleID.Present() {
		s.checkVar(fe, "role_id", in.RoleID.Value, "min=1")
	}
	fe.Override(in.BindErrors)
	if err := s.checkReferences(ctx, fe, email, in.RoleID.Ptr(), u.ID); err != nil {
		return nil, err
	}
	if !fe.Empty() {
		return nil, &ValidationError{Fields: fe}
	}
	if in.empty() {
		return u, nil
	}

	if in.Name.Set {
		u.Name = in.Name.Value
	}
	if in.Email.Set {
		u.Email = in.Email.Value
	}
	if in.Age.Set {
		u.Age = in.Age.Ptr()
	}
	if in.RoleID.Set {
		u.RoleID = in.RoleID.Ptr()
	}

	if err := s.Repo.Update(ctx, u); err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return nil, ErrUserNotFound
		}
		if ve := constraintError(err); ve != nil {
			return nil, ve
		}
		return nil, fmt.Errorf("update user %d: %w", id, err)
	}

	s.afterWrite(ctx)
	s.index(ctx, u)
	return u, nil
}

// Delete removes the row permanently; a second call reports ErrUserNotFound.
func (s *UserService) Delete(ctx context.Context, id int64) error {
	u, err := s.Get(ctx, id)
	if err != nil {
		return err
	}
	if err := s.Repo.Delete(ctx, id); err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return ErrUserNotFound
		}
		return fmt.Errorf("delete user %d: %w", id, err)
	}

	s.Logger.WithField("user_id", id).Info("user deleted")
	s.afterWrite(ctx)
	if s.Sessions != nil {
		if err := s.Sessions.Delete(ctx, id); err != nil {
			s.Logger.WithError(err).WithField("user_id", id).Warn("session removal failed")
		}
	}
	if s.Index != nil {
		if err := s.Index.Remove(ctx, id); err != nil {
			s.Logger.WithError(err).WithField("user_id", id).Warn("search index removal failed")
		}
	}
	s.enqueueMail(ctx, u, mailtpl.AccountDeleted)
	return nil
}

// Search queries the search index; without one it returns no hits.
func (s *UserService) Search(ctx context.Context, q string, size int) ([]map[string]any, error) {
	if size <= 0 || size > 50 {
		size = 10
	}
	q = strings.TrimSpace(q)
	if s.Index == nil || q == "" {
		return []map[string]any{}, nil
	}
	hits, err := s.Index.Search(ctx, q, size)
	if err != nil {
		return nil, fmt.Errorf("search users: %w", err)
	}
	return hits, nil
}

func (s *UserService) checkVar(fe validation.FieldErrors, field string, value any, tag string) {
	if err := s.Validate.Var(value, tag); err != nil {
		fe.Merge(validation.ToFieldErrors(err, field))
	}
}

// checkReferences runs the store-backed rules, skipping fields that already failed syntax checks.
func (s *UserService) checkReferences(ctx context.Context, fe validation.FieldErrors, email *string, roleID *int64, exceptID int64) error {
	if email != nil && *email != "" && !fe.Has("email") {
		taken, err := s.Repo.EmailTaken(ctx, *email, exceptID)
		if err != nil {
			return fmt.Errorf("check email uniqueness: %w", err)
		}
		if taken {
			fe.Add("email", msgEmailTaken)
		}
	}
	if roleID != nil && !fe.Has("role_id") {
		ok, err := s.Roles.Exists(ctx, *roleID)
		if err != nil {
			return fmt.Errorf("check role: %w", err)
		}
		if !ok {
			fe.Add("role_id", msgRoleInvalid)
		}
	}
	return nil
}

// constraintError turns store constraint violations that slipped past the pre-checks into field errors.
func constraintError(err error) *ValidationError {
	switch {
	case errors.Is(err, repo.ErrEmailTaken):
		return &ValidationError{Fields: validation.FieldErrors{"email": {msgEmailTaken}}}
	case errors.Is(err, repo.ErrRoleNotFound):
		return &ValidationError{Fields: validation.FieldErrors{"role_id": {msgRoleInvalid}}}
	}
	return nil
}

func (s *UserService) listEpoch(ctx context.Context) (int64, error) {
	raw, ok, err := s.Cache.Get(ctx, listEpochKey)
	if err != nil || !ok {
		return 0, err
	}
	n, err := strconv.ParseInt(strings.TrimSpace(string(raw)), 10, 64)
	if err != nil {
		return 0, nil
	}
	return n, nil
}

// afterWrite bumps the list epoch so cached pages from before the write become unreachable.
// The write is already committed, so a failure here is only logged.
func (s *UserService) afterWrite(ctx context.Context) {
	if !s.ListOpts.InvalidateOnWrite {
		return
	}
	if _, err := s.Cache.Incr(ctx, listEpochKey); err != nil {
		s.Logger.WithError(err).Warn("list cache epoch bump failed")
		return
	}
	listCacheStats.Add("epoch_bumps", 1)
}

func (s *UserService) index(ctx context.Context, u *entity.User) {
	if s.Index == nil {
		return
	}
	if err := s.Index.Index(ctx, u); err != nil {
		s.Logger.WithError(err).WithField("user_id", u.ID).Warn("search index update failed")
	}
}

func (s *UserService) enqueueMail(ctx context.Context, u *entity.User, template string) {
	if s.Mail == nil {
		return
	}
	job := mailer.EmailJob{
		To:       u.Email,
		Template: template,
		Data:     mailtpl.ToMap(mailtpl.NewEmailData(u.Name, u.Email, template)),
	}
	if err := s.Mail.PublishJSON(ctx, job); err != nil {
		s.Logger.WithError(err).WithField("user_id", u.ID).Warn("failed to publish email job")
	}
}
