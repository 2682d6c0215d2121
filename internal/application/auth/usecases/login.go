package usecases

import (
	"context"

	"shoplane/internal/domain/user"
	"shoplane/internal/shared/errors"
	"shoplane/internal/shared/logger"
)

type LoginCommand struct {
	Email     string
	Password  string
	IPAddress string
	UserAgent string
}

type LoginResult struct {
	AccessToken string
	ExpiresIn   int64
	UserID      string
	Email       string
	Name        string
	Role        user.Role
}

// PasswordVerifier checks a plaintext password against a stored hash.
type PasswordVerifier interface {
	Verify(password, hash string) error
}

// TokenGenerator issues a signed bearer token for a user.
type TokenGenerator interface {
	Generate(u *user.User) (token string, expiresIn int64, err error)
}

type LoginUseCase struct {
	userRepo user.Repository
	hasher   PasswordVerifier
	tokens   TokenGenerator
	logger   logger.Interface
}

func NewLoginUseCase(
	userRepo user.Repository,
	hasher PasswordVerifier,
	tokens TokenGenerator,
	log logger.Interface,
) *LoginUseCase {
	return &LoginUseCase{
		userRepo: userRepo,
		hasher:   hasher,
		tokens:   tokens,
		logger:   log,
	}
}

// Execute authenticates the user and issues a bearer token. The session
// record is deliberately NOT created here: it materializes lazily on the
// first authenticated request, via the activity middleware.
func (uc *LoginUseCase) Execute(ctx context.Context, cmd LoginCommand) (*LoginResult, error) {
	u, err := uc.userRepo.GetByEmail(ctx, cmd.Email)
	if err != nil {
		if errors.IsNotFound(err) {
			uc.logger.Warnw("login attempt for unknown email", "email", cmd.Email, "ip", cmd.IPAddress)
			return nil, errors.NewUnauthorizedError("invalid email or password")
		}
		uc.logger.Errorw("failed to look up user", "error", err, "email", cmd.Email)
		return nil, errors.NewInternalError("failed to look up user")
	}

	if err := uc.hasher.Verify(cmd.Password, u.PasswordHash); err != nil {
		uc.logger.Warnw("login attempt with wrong password", "user_id", u.ID, "ip", cmd.IPAddress)
		return nil, errors.NewUnauthorizedError("invalid email or password")
	}

	token, expiresIn, err := uc.tokens.Generate(u)
	if err != nil {
		uc.logger.Errorw("failed to generate access token", "error", err, "user_id", u.ID)
		return nil, errors.NewInternalError("failed to issue access token")
	}

	uc.logger.Infow("user logged in", "user_id", u.ID, "ip", cmd.IPAddress)

	return &LoginResult{
		AccessToken: token,
		ExpiresIn:   expiresIn,
		UserID:      u.ID,
		Email:       u.Email,
		Name:        u.Name,
		Role:        u.Role,
	}, nil
}
