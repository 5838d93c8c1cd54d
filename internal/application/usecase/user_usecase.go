package usecase

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/jhoicas/pos-api/internal/application/auth"
	"github.com/jhoicas/pos-api/internal/application/dto"
	"github.com/jhoicas/pos-api/internal/domain"
	"github.com/jhoicas/pos-api/internal/domain/entity"
	"github.com/jhoicas/pos-api/internal/domain/policy"
	"github.com/jhoicas/pos-api/internal/domain/repository"
)

// UserUseCase administración de usuarios del personal.
type UserUseCase struct {
	repo        repository.UserRepository
	sessionRepo repository.SessionRepository
	bcryptCost  int
}

// NewUserUseCase construye el caso de uso.
func NewUserUseCase(repo repository.UserRepository, sessionRepo repository.SessionRepository, bcryptCost int) *UserUseCase {
	return &UserUseCase{repo: repo, sessionRepo: sessionRepo, bcryptCost: bcryptCost}
}

// Create valida unicidad de username/email, hashea la password y persiste.
func (uc *UserUseCase) Create(ctx context.Context, in dto.CreateUserRequest) (*dto.UserResponse, error) {
	perms, err := parsePermissions(in.Permissions)
	if err != nil {
		return nil, err
	}
	username := strings.TrimSpace(in.Username)
	email := strings.ToLower(strings.TrimSpace(in.Email))
	if existing, err := uc.repo.GetByUsername(ctx, username); err != nil {
		return nil, err
	} else if existing != nil {
		return nil, domain.NewBusinessError(domain.ErrDuplicate, "el nombre de usuario ya existe")
	}
	if existing, err := uc.repo.GetByEmail(ctx, email); err != nil {
		return nil, err
	} else if existing != nil {
		return nil, domain.NewBusinessError(domain.ErrDuplicate, "el email ya está registrado")
	}
	hash, err := auth.HashPassword(in.Password, uc.bcryptCost)
	if err != nil {
		return nil, err
	}
	now := time.Now()
	user := &entity.User{
		ID:           uuid.NewString(),
		Username:     username,
		Email:        email,
		PasswordHash: hash,
		FirstName:    in.FirstName,
		LastName:     in.LastName,
		Phone:        in.Phone,
		Role:         in.Role,
		Permissions:  perms,
		Status:       entity.StatusActive,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if err := uc.repo.Create(ctx, user); err != nil {
		return nil, err
	}
	return toUserResponse(user), nil
}

// GetByID obtiene un usuario.
func (uc *UserUseCase) GetByID(ctx context.Context, id string) (*dto.UserResponse, error) {
	user, err := uc.load(ctx, id)
	if err != nil {
		return nil, err
	}
	return toUserResponse(user), nil
}

// List lista usuarios con filtros y paginación.
func (uc *UserUseCase) List(ctx context.Context, q dto.UserListQuery) (*dto.ListResponse[dto.UserResponse], error) {
	q.DefaultPage()
	users, total, err := uc.repo.List(ctx, repository.UserFilter{
		Role: q.Role, Status: q.Status, Search: strings.TrimSpace(q.Search),
		Page: repository.Page{Limit: q.Limit, Offset: q.Offset},
	})
	if err != nil {
		return nil, err
	}
	items := make([]dto.UserResponse, 0, len(users))
	for _, u := range users {
		items = append(items, *toUserResponse(u))
	}
	out := dto.NewList(items, q.PageRequest, total)
	return &out, nil
}

// Update aplica el patch. Pasar a inactive cierra las sesiones del usuario.
func (uc *UserUseCase) Update(ctx context.Context, id string, in dto.UpdateUserRequest) (*dto.UserResponse, error) {
	user, err := uc.load(ctx, id)
	if err != nil {
		return nil, err
	}
	if in.Email != nil {
		email := strings.ToLower(strings.TrimSpace(*in.Email))
		if email != user.Email {
			if existing, err := uc.repo.GetByEmail(ctx, email); err != nil {
				return nil, err
			} else if existing != nil && existing.ID != user.ID {
				return nil, domain.NewBusinessError(domain.ErrDuplicate, "el email ya está registrado")
			}
			user.Email = email
		}
	}
	if in.FirstName != nil {
		user.FirstName = *in.FirstName
	}
	if in.LastName != nil {
		user.LastName = *in.LastName
	}
	if in.Phone != nil {
		user.Phone = *in.Phone
	}
	if in.Role != nil {
		user.Role = *in.Role
	}
	deactivating := false
	if in.Status != nil {
		deactivating = *in.Status == entity.StatusInactive && user.Status != entity.StatusInactive
		user.Status = *in.Status
	}
	user.UpdatedAt = time.Now()
	if err := uc.repo.Update(ctx, user); err != nil {
		return nil, err
	}
	if deactivating {
		if _, err := uc.sessionRepo.DeleteByUser(ctx, user.ID); err != nil {
			return nil, err
		}
	}
	return toUserResponse(user), nil
}

// UpdatePermissions reemplaza los overrides de capacidades. Aplica en el próximo login o refresh.
func (uc *UserUseCase) UpdatePermissions(ctx context.Context, id string, in dto.UpdatePermissionsRequest) (*dto.UserResponse, error) {
	perms, err := parsePermissions(in.Permissions)
	if err != nil {
		return nil, err
	}
	user, err := uc.load(ctx, id)
	if err != nil {
		return nil, err
	}
	user.Permissions = perms
	user.UpdatedAt = time.Now()
	if err := uc.repo.Update(ctx, user); err != nil {
		return nil, err
	}
	return toUserResponse(user), nil
}

// ResetPassword asigna una password nueva y cierra las sesiones abiertas.
func (uc *UserUseCase) ResetPassword(ctx context.Context, id string, in dto.ResetPasswordRequest) error {
	if _, err := uc.load(ctx, id); err != nil {
		return err
	}
	hash, err := auth.HashPassword(in.NewPassword, uc.bcryptCost)
	if err != nil {
		return err
	}
	if err := uc.repo.UpdatePassword(ctx, id, hash, time.Now()); err != nil {
		return err
	}
	_, err = uc.sessionRepo.DeleteByUser(ctx, id)
	return err
}

// Deactivate baja lógica idempotente: un usuario ya inactivo se devuelve sin cambios.
func (uc *UserUseCase) Deactivate(ctx context.Context, id, actorID string) (*dto.UserResponse, error) {
	if id == actorID {
		return nil, domain.NewBusinessError(domain.ErrConflict, "no puede desactivar su propio usuario")
	}
	user, err := uc.load(ctx, id)
	if err != nil {
		return nil, err
	}
	if user.Status == entity.StatusInactive {
		return toUserResponse(user), nil
	}
	user.Status = entity.StatusInactive
	user.UpdatedAt = time.Now()
	if err := uc.repo.Update(ctx, user); err != nil {
		return nil, err
	}
	if _, err := uc.sessionRepo.DeleteByUser(ctx, user.ID); err != nil {
		return nil, err
	}
	return toUserResponse(user), nil
}

func (uc *UserUseCase) load(ctx context.Context, id string) (*entity.User, error) {
	user, err := uc.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, domain.ErrUserNotFound
	}
	return user, nil
}

func parsePermissions(in map[string]bool) (entity.PermissionSet, error) {
	if len(in) == 0 {
		return nil, nil
	}
	out := make(entity.PermissionSet, len(in))
	for k, v := range in {
		p := entity.Permission(k)
		if !entity.KnownPermission(p) {
			return nil, domain.NewBusinessError(domain.ErrInvalidInput, fmt.Sprintf("permiso desconocido: %s", k))
		}
		out[p] = v
	}
	return out, nil
}

func toUserResponse(u *entity.User) *dto.UserResponse {
	out := dto.FromUser(u, policy.Effective(u.Role, u.Permissions))
	return &out
}
