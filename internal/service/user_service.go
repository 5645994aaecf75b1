package service

import (
	"context"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/crypto/bcrypt"

	"github.com/theline-social/theline/internal/model"
	"github.com/theline-social/theline/internal/projection"
	"github.com/theline-social/theline/internal/repository"
	"github.com/theline-social/theline/pkg/apperr"
)

type RegisterInput struct {
	Handle   string `json:"handle" binding:"required,handle"`
	Name     string `json:"name" binding:"required,max=64"`
	Password string `json:"password" binding:"required,min=8,max=72"`
}

type UpdateProfileInput struct {
	Name      *string `json:"name,omitempty" binding:"omitempty,max=64"`
	Title     *string `json:"title,omitempty" binding:"omitempty,max=64"`
	Bio       *string `json:"bio,omitempty" binding:"omitempty,max=512"`
	AvatarURL *string `json:"avatarUrl,omitempty" binding:"omitempty,max=512"`
	BannerURL *string `json:"bannerUrl,omitempty" binding:"omitempty,max=512"`
}

// ProfileDTO is the full profile page payload, a superset of the author card.
type ProfileDTO struct {
	projection.AuthorCard
	Banner   string    `json:"banner,omitempty"`
	JoinedAt time.Time `json:"joinedAt"`
}

type AuthResult struct {
	Token string          `json:"token"`
	User  *model.User     `json:"user,omitempty"`
	Staff *model.Employee `json:"staff,omitempty"`
}

type UserService interface {
	Register(ctx context.Context, in RegisterInput) (*AuthResult, error)
	Login(ctx context.Context, handle, password string) (*AuthResult, error)
	EmployeeLogin(ctx context.Context, email, password string) (*AuthResult, error)

	Profile(ctx context.Context, viewerID uint, handle string) (*ProfileDTO, error)
	UpdateProfile(ctx context.Context, userID uint, in UpdateProfileInput) (*model.User, error)
	Followers(ctx context.Context, viewerID uint, handle string, page, limit int) ([]projection.AuthorCard, error)
	Following(ctx context.Context, viewerID uint, handle string, page, limit int) ([]projection.AuthorCard, error)
	Search(ctx context.Context, viewerID uint, prefix string, limit int) ([]projection.AuthorCard, error)
}

type userService struct {
	users  repository.UserRepository
	rel    repository.RelationshipRepository
	loader *ProjectionLoader

	jwtSecret string
	tokenTTL  time.Duration
}

func NewUserService(
	users repository.UserRepository,
	rel repository.RelationshipRepository,
	loader *ProjectionLoader,
	jwtSecret string,
	tokenTTL time.Duration,
) UserService {
	if tokenTTL <= 0 {
		tokenTTL = 24 * time.Hour
	}
	return &userService{users: users, rel: rel, loader: loader, jwtSecret: jwtSecret, tokenTTL: tokenTTL}
}

func (s *userService) Register(ctx context.Context, in RegisterInput) (*AuthResult, error) {
	handle := strings.ToLower(strings.TrimSpace(in.Handle))
	if _, err := s.users.GetByHandle(ctx, handle); err == nil {
		return nil, apperr.New(apperr.Conflict, "handle already taken")
	} else if !apperr.IsKind(err, apperr.NotFound) {
		return nil, err
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(in.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}
	u := &model.User{Handle: handle, Name: in.Name, PasswordHash: string(hash)}
	if err := s.users.Create(ctx, u); err != nil {
		return nil, err
	}
	token, err := s.issueToken(u.ID, "user")
	if err != nil {
		return nil, err
	}
	return &AuthResult{Token: token, User: u}, nil
}

func (s *userService) Login(ctx context.Context, handle, password string) (*AuthResult, error) {
	u, err := s.users.GetByHandle(ctx, strings.ToLower(strings.TrimSpace(handle)))
	if err != nil {
		if apperr.IsKind(err, apperr.NotFound) {
			return nil, apperr.New(apperr.Unauthorized, "wrong handle or password")
		}
		return nil, err
	}
	if bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(password)) != nil {
		return nil, apperr.New(apperr.Unauthorized, "wrong handle or password")
	}
	token, err := s.issueToken(u.ID, "user")
	if err != nil {
		return nil, err
	}
	return &AuthResult{Token: token, User: u}, nil
}

func (s *userService) EmployeeLogin(ctx context.Context, email, password string) (*AuthResult, error) {
	e, err := s.users.GetEmployeeByEmail(ctx, strings.ToLower(strings.TrimSpace(email)))
	if err != nil {
		if apperr.IsKind(err, apperr.NotFound) {
			return nil, apperr.New(apperr.Unauthorized, "wrong email or password")
		}
		return nil, err
	}
	if bcrypt.CompareHashAndPassword([]byte(e.PasswordHash), []byte(password)) != nil {
		return nil, apperr.New(apperr.Unauthorized, "wrong email or password")
	}
	token, err := s.issueToken(e.ID, "employee")
	if err != nil {
		return nil, err
	}
	return &AuthResult{Token: token, Staff: e}, nil
}

func (s *userService) issueToken(id uint, scope string) (string, error) {
	now := time.Now()
	claims := jwt.MapClaims{
		"sub":   id,
		"scope": scope,
		"iat":   now.Unix(),
		"exp":   now.Add(s.tokenTTL).Unix(),
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(s.jwtSecret))
}

func (s *userService) Profile(ctx context.Context, viewerID uint, handle string) (*ProfileDTO, error) {
	u, err := s.users.GetByHandle(ctx, handle)
	if err != nil {
		return nil, err
	}
	in, err := s.cardInputs(ctx, viewerID, []uint{u.ID})
	if err != nil {
		return nil, err
	}
	return &ProfileDTO{
		AuthorCard: projection.Author(*u, in),
		Banner:     u.BannerURL,
		JoinedAt:   u.CreatedAt,
	}, nil
}

func (s *userService) UpdateProfile(ctx context.Context, userID uint, in UpdateProfileInput) (*model.User, error) {
	u, err := s.users.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	if in.Name != nil {
		u.Name = *in.Name
	}
	if in.Title != nil {
		u.Title = *in.Title
	}
	if in.Bio != nil {
		u.Bio = *in.Bio
	}
	if in.AvatarURL != nil {
		u.AvatarURL = *in.AvatarURL
	}
	if in.BannerURL != nil {
		u.BannerURL = *in.BannerURL
	}
	if err := s.users.Update(ctx, u); err != nil {
		return nil, err
	}
	return u, nil
}

func (s *userService) Followers(ctx context.Context, viewerID uint, handle string, page, limit int) ([]projection.AuthorCard, error) {
	u, err := s.users.GetByHandle(ctx, handle)
	if err != nil {
		return nil, err
	}
	page, limit = clampPage(page, limit)
	ids, err := s.rel.FollowersPage(ctx, u.ID, (page-1)*limit, limit)
	if err != nil {
		return nil, err
	}
	return s.cards(ctx, viewerID, ids)
}

func (s *userService) Following(ctx context.Context, viewerID uint, handle string, page, limit int) ([]projection.AuthorCard, error) {
	u, err := s.users.GetByHandle(ctx, handle)
	if err != nil {
		return nil, err
	}
	page, limit = clampPage(page, limit)
	ids, err := s.rel.FollowingPage(ctx, u.ID, (page-1)*limit, limit)
	if err != nil {
		return nil, err
	}
	return s.cards(ctx, viewerID, ids)
}

func (s *userService) Search(ctx context.Context, viewerID uint, prefix string, limit int) ([]projection.AuthorCard, error) {
	prefix = strings.ToLower(strings.TrimSpace(strings.TrimPrefix(prefix, "@")))
	if prefix == "" {
		return nil, apperr.New(apperr.Invalid, "empty search query")
	}
	if limit < 1 || limit > 50 {
		limit = 10
	}
	users, err := s.users.Search(ctx, prefix, limit)
	if err != nil {
		return nil, err
	}
	ids := make([]uint, 0, len(users))
	for _, u := range users {
		ids = append(ids, u.ID)
	}
	in, err := s.cardInputs(ctx, viewerID, ids)
	if err != nil {
		return nil, err
	}
	out := make([]projection.AuthorCard, 0, len(users))
	for _, u := range users {
		out = append(out, projection.Author(u, in))
	}
	return out, nil
}

// cards loads users by id preserving the given order, then projects them
// relative to the viewer.
func (s *userService) cards(ctx context.Context, viewerID uint, ids []uint) ([]projection.AuthorCard, error) {
	users, err := s.users.GetByIDs(ctx, ids)
	if err != nil {
		return nil, err
	}
	byID := make(map[uint]model.User, len(users))
	for _, u := range users {
		byID[u.ID] = u
	}
	in, err := s.cardInputs(ctx, viewerID, ids)
	if err != nil {
		return nil, err
	}
	out := make([]projection.AuthorCard, 0, len(ids))
	for _, id := range ids {
		u, ok := byID[id]
		if !ok {
			continue
		}
		out = append(out, projection.Author(u, in))
	}
	return out, nil
}

func (s *userService) cardInputs(ctx context.Context, viewerID uint, ids []uint) (projection.Inputs, error) {
	in := projection.Inputs{ViewerID: viewerID}
	var err error
	if in.Rel, err = s.loader.relationSets(ctx, viewerID); err != nil {
		return in, err
	}
	if in.UserStats, err = s.loader.userStats(ctx, ids); err != nil {
		return in, err
	}
	return in, nil
}
