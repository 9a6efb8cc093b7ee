package memory

import (
	"sort"

	"github.com/chrstnfrrr03/erp-system-sub002/internal/domain"
	"github.com/chrstnfrrr03/erp-system-sub002/internal/domain/entity"
	"github.com/chrstnfrrr03/erp-system-sub002/internal/domain/repository"
)

var _ repository.AuditLogRepository = (*auditLogRepo)(nil)

type auditLogRepo struct {
	s        *Store
	external bool
}

func (r *auditLogRepo) Create(l *entity.AuditLog) error {
	defer lock(r.s, r.external)()
	r.s.auditLogs = append(r.s.auditLogs, *l)
	return nil
}

func (r *auditLogRepo) List(f repository.AuditFilter) ([]*entity.AuditLog, error) {
	defer lock(r.s, r.external)()
	var list []*entity.AuditLog
	for _, l := range r.s.auditLogs {
		if f.EntityType != "" && string(l.EntityType) != f.EntityType {
			continue
		}
		if f.Action != "" && l.Action != f.Action {
			continue
		}
		out := l
		list = append(list, &out)
	}
	sort.Slice(list, func(i, j int) bool { return list[i].CreatedAt.After(list[j].CreatedAt) })
	return paginate(list, f.Limit, f.Offset), nil
}

var _ repository.UserRepository = (*userRepo)(nil)

type userRepo struct {
	s        *Store
	external bool
}

func (r *userRepo) Create(u *entity.User) error {
	defer lock(r.s, r.external)()
	for _, existing := range r.s.users {
		if existing.Email == u.Email {
			return domain.ErrDuplicate
		}
	}
	r.s.users[u.ID] = *u
	return nil
}

func (r *userRepo) GetByID(id string) (*entity.User, error) {
	defer lock(r.s, r.external)()
	u, ok := r.s.users[id]
	if !ok {
		return nil, nil
	}
	return &u, nil
}

func (r *userRepo) GetByEmail(email string) (*entity.User, error) {
	defer lock(r.s, r.external)()
	for _, u := range r.s.users {
		if u.Email == email {
			out := u
			return &out, nil
		}
	}
	return nil, nil
}
