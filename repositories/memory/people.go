package memory

import (
	"context"
	"sort"

	"github.com/gnbf/badminton-registry/models"
	"github.com/gnbf/badminton-registry/repositories"
)

type userRepo struct{ s *Store }

func (r userRepo) Create(_ context.Context, user *models.User) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, u := range r.s.users {
		if u.Email == user.Email {
			return repositories.ErrUserEmailConflict
		}
	}
	user.ID = r.s.next("users")
	user.CreatedAt = r.s.now()
	user.UpdatedAt = user.CreatedAt
	r.s.users[user.ID] = *user
	return nil
}

func (r userRepo) GetByID(_ context.Context, id int) (*models.User, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	u, ok := r.s.users[id]
	if !ok {
		return nil, repositories.ErrUserNotFound
	}
	return &u, nil
}

func (r userRepo) GetByEmail(_ context.Context, email string) (*models.User, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	for _, u := range r.s.users {
		if u.Email == email {
			return &u, nil
		}
	}
	return nil, repositories.ErrUserNotFound
}

func (r userRepo) UpdatePassword(_ context.Context, id int, passwordHash string) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	u, ok := r.s.users[id]
	if !ok {
		return repositories.ErrUserNotFound
	}
	u.PasswordHash = passwordHash
	u.UpdatedAt = r.s.now()
	r.s.users[id] = u
	return nil
}

func (r userRepo) List(_ context.Context, filter models.UserFilter) ([]models.User, int64, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	matched := make([]models.User, 0, len(r.s.users))
	for _, u := range r.s.users {
		if filter.Role == "" || u.Role == filter.Role {
			matched = append(matched, u)
		}
	}
	sort.Slice(matched, func(i, j int) bool { return matched[i].ID < matched[j].ID })

	total := int64(len(matched))
	start := (filter.Page - 1) * filter.Limit
	if start >= len(matched) {
		return []models.User{}, total, nil
	}
	end := start + filter.Limit
	if end > len(matched) {
		end = len(matched)
	}
	return matched[start:end], total, nil
}

func (r userRepo) UpdateRole(_ context.Context, id int, role models.UserRole) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	u, ok := r.s.users[id]
	if !ok {
		return repositories.ErrUserNotFound
	}
	u.Role = role
	u.UpdatedAt = r.s.now()
	r.s.users[id] = u
	return nil
}

func (r userRepo) Delete(_ context.Context, id int) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, ok := r.s.users[id]; !ok {
		return repositories.ErrUserNotFound
	}
	delete(r.s.users, id)
	return nil
}

type clubRepo struct{ s *Store }

func (r clubRepo) check(club *models.Club) error {
	for id, c := range r.s.clubs {
		if id != club.ID && alive(c.DeletedAt) && c.Slug == club.Slug {
			return repositories.ErrClubSlugConflict
		}
	}
	if club.HeadCoachID != nil {
		if _, ok := r.s.coaches[*club.HeadCoachID]; !ok {
			return repositories.ErrClubInvalidReference
		}
	}
	return nil
}

func (r clubRepo) Create(_ context.Context, club *models.Club) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	club.ID = 0
	if err := r.check(club); err != nil {
		return err
	}
	club.ID = r.s.next("clubs")
	club.CreatedAt = r.s.now()
	club.UpdatedAt = club.CreatedAt
	r.s.clubs[club.ID] = *club
	return nil
}

func (r clubRepo) GetByID(_ context.Context, id int) (*models.Club, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	c, ok := r.s.clubs[id]
	if !ok || !alive(c.DeletedAt) {
		return nil, repositories.ErrClubNotFound
	}
	return &c, nil
}

func (r clubRepo) GetBySlug(_ context.Context, slug string) (*models.Club, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	for _, c := range r.s.clubs {
		if alive(c.DeletedAt) && c.Slug == slug {
			return &c, nil
		}
	}
	return nil, repositories.ErrClubNotFound
}

func (r clubRepo) List(_ context.Context) ([]models.Club, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	clubs := make([]models.Club, 0, len(r.s.clubs))
	for _, c := range r.s.clubs {
		if alive(c.DeletedAt) {
			clubs = append(clubs, c)
		}
	}
	sort.Slice(clubs, func(i, j int) bool { return clubs[i].Name < clubs[j].Name })
	return clubs, nil
}

func (r clubRepo) Update(_ context.Context, club *models.Club) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	stored, ok := r.s.clubs[club.ID]
	if !ok || !alive(stored.DeletedAt) {
		return repositories.ErrClubNotFound
	}
	if err := r.check(club); err != nil {
		return err
	}
	club.CreatedAt = stored.CreatedAt
	club.UpdatedAt = r.s.now()
	r.s.clubs[club.ID] = *club
	return nil
}

func (r clubRepo) UpdateLogo(_ context.Context, id int, logoURL string) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	c, ok := r.s.clubs[id]
	if !ok || !alive(c.DeletedAt) {
		return repositories.ErrClubNotFound
	}
	c.LogoURL = &logoURL
	r.s.clubs[id] = c
	return nil
}

func (r clubRepo) Delete(_ context.Context, id int) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	c, ok := r.s.clubs[id]
	if !ok || !alive(c.DeletedAt) {
		return repositories.ErrClubNotFound
	}
	c.DeletedAt = r.s.deletedAt()
	r.s.clubs[id] = c
	return nil
}

type playerRepo struct{ s *Store }

func (r playerRepo) check(player *models.Player) error {
	for id, p := range r.s.players {
		if id == player.ID || !alive(p.DeletedAt) {
			continue
		}
		if p.Slug == player.Slug {
			return repositories.ErrPlayerSlugConflict
		}
		if p.RegistrationNumber != nil && player.RegistrationNumber != nil &&
			*p.RegistrationNumber == *player.RegistrationNumber {
			return repositories.ErrPlayerRegistrationConflict
		}
	}
	if player.ClubID != nil {
		if _, ok := r.s.clubs[*player.ClubID]; !ok {
			return repositories.ErrPlayerInvalidClub
		}
	}
	return nil
}

func (r playerRepo) Create(_ context.Context, player *models.Player) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	player.ID = 0
	if err := r.check(player); err != nil {
		return err
	}
	player.ID = r.s.next("players")
	player.CreatedAt = r.s.now()
	player.UpdatedAt = player.CreatedAt
	r.s.players[player.ID] = *player
	return nil
}

func (r playerRepo) GetByID(_ context.Context, id int) (*models.Player, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	p, ok := r.s.players[id]
	if !ok || !alive(p.DeletedAt) {
		return nil, repositories.ErrPlayerNotFound
	}
	return &p, nil
}

func (r playerRepo) GetBySlug(_ context.Context, slug string) (*models.Player, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	for _, p := range r.s.players {
		if alive(p.DeletedAt) && p.Slug == slug {
			return &p, nil
		}
	}
	return nil, repositories.ErrPlayerNotFound
}

func (r playerRepo) GetByIDs(_ context.Context, ids []int) ([]models.Player, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	players := make([]models.Player, 0, len(ids))
	for _, id := range ids {
		if p, ok := r.s.players[id]; ok {
			players = append(players, p)
		}
	}
	return players, nil
}

func (r playerRepo) filtered(filter models.PlayerFilter) []models.Player {
	players := make([]models.Player, 0)
	for _, p := range r.s.players {
		if !alive(p.DeletedAt) {
			continue
		}
		if filter.Gender != "" && p.Gender != filter.Gender {
			continue
		}
		if filter.ClubID != nil && (p.ClubID == nil || *p.ClubID != *filter.ClubID) {
			continue
		}
		players = append(players, p)
	}
	return players
}

func (r playerRepo) List(_ context.Context, filter models.PlayerFilter) ([]models.Player, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	players := r.filtered(filter)
	sort.Slice(players, func(i, j int) bool {
		if players[i].LastName != players[j].LastName {
			return players[i].LastName < players[j].LastName
		}
		return players[i].FirstName < players[j].FirstName
	})
	return players, nil
}

func (r playerRepo) Count(_ context.Context, filter models.PlayerFilter) (int64, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	return int64(len(r.filtered(filter))), nil
}

func (r playerRepo) Update(_ context.Context, player *models.Player) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	stored, ok := r.s.players[player.ID]
	if !ok || !alive(stored.DeletedAt) {
		return repositories.ErrPlayerNotFound
	}
	if err := r.check(player); err != nil {
		return err
	}
	player.ImageURL = stored.ImageURL
	player.CreatedAt = stored.CreatedAt
	player.UpdatedAt = r.s.now()
	r.s.players[player.ID] = *player
	return nil
}

func (r playerRepo) UpdateImage(_ context.Context, id int, imageURL string) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	p, ok := r.s.players[id]
	if !ok || !alive(p.DeletedAt) {
		return repositories.ErrPlayerNotFound
	}
	p.ImageURL = &imageURL
	r.s.players[id] = p
	return nil
}

func (r playerRepo) Delete(_ context.Context, id int) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	p, ok := r.s.players[id]
	if !ok || !alive(p.DeletedAt) {
		return repositories.ErrPlayerNotFound
	}
	p.DeletedAt = r.s.deletedAt()
	r.s.players[id] = p
	return nil
}

type coachRepo struct{ s *Store }

func (r coachRepo) check(coach *models.Coach) error {
	for id, c := range r.s.coaches {
		if id != coach.ID && alive(c.DeletedAt) && c.Slug == coach.Slug {
			return repositories.ErrCoachSlugConflict
		}
	}
	if coach.ClubID != nil {
		if _, ok := r.s.clubs[*coach.ClubID]; !ok {
			return repositories.ErrCoachInvalidReference
		}
	}
	if coach.CertificationLevelID != nil {
		return repositories.ErrCoachInvalidReference
	}
	return nil
}

func (r coachRepo) Create(_ context.Context, coach *models.Coach) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	coach.ID = 0
	if err := r.check(coach); err != nil {
		return err
	}
	coach.ID = r.s.next("coaches")
	coach.CreatedAt = r.s.now()
	coach.UpdatedAt = coach.CreatedAt
	r.s.coaches[coach.ID] = *coach
	return nil
}

func (r coachRepo) GetByID(_ context.Context, id int) (*models.Coach, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	c, ok := r.s.coaches[id]
	if !ok || !alive(c.DeletedAt) {
		return nil, repositories.ErrCoachNotFound
	}
	return &c, nil
}

func (r coachRepo) GetBySlug(_ context.Context, slug string) (*models.Coach, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	for _, c := range r.s.coaches {
		if alive(c.DeletedAt) && c.Slug == slug {
			return &c, nil
		}
	}
	return nil, repositories.ErrCoachNotFound
}

func (r coachRepo) List(_ context.Context) ([]models.Coach, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	coaches := make([]models.Coach, 0, len(r.s.coaches))
	for _, c := range r.s.coaches {
		if alive(c.DeletedAt) {
			coaches = append(coaches, c)
		}
	}
	sort.Slice(coaches, func(i, j int) bool {
		if coaches[i].LastName != coaches[j].LastName {
			return coaches[i].LastName < coaches[j].LastName
		}
		return coaches[i].FirstName < coaches[j].FirstName
	})
	return coaches, nil
}

func (r coachRepo) Update(_ context.Context, coach *models.Coach) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	stored, ok := r.s.coaches[coach.ID]
	if !ok || !alive(stored.DeletedAt) {
		return repositories.ErrCoachNotFound
	}
	if err := r.check(coach); err != nil {
		return err
	}
	coach.CreatedAt = stored.CreatedAt
	coach.UpdatedAt = r.s.now()
	r.s.coaches[coach.ID] = *coach
	return nil
}

func (r coachRepo) Delete(_ context.Context, id int) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	c, ok := r.s.coaches[id]
	if !ok || !alive(c.DeletedAt) {
		return repositories.ErrCoachNotFound
	}
	c.DeletedAt = r.s.deletedAt()
	r.s.coaches[id] = c
	return nil
}

type officialRepo struct{ s *Store }

func (r officialRepo) Create(_ context.Context, kind models.OfficialKind, official *models.Official) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	table := r.s.officials[kind]
	for _, o := range table {
		if alive(o.DeletedAt) && o.Slug == official.Slug {
			return repositories.ErrOfficialSlugConflict
		}
	}
	official.ID = r.s.next(kind.Table())
	official.CreatedAt = r.s.now()
	official.UpdatedAt = official.CreatedAt
	table[official.ID] = *official
	return nil
}

func (r officialRepo) GetByID(_ context.Context, kind models.OfficialKind, id int) (*models.Official, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	o, ok := r.s.officials[kind][id]
	if !ok || !alive(o.DeletedAt) {
		return nil, repositories.ErrOfficialNotFound
	}
	return &o, nil
}

func (r officialRepo) GetBySlug(_ context.Context, kind models.OfficialKind, slug string) (*models.Official, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	for _, o := range r.s.officials[kind] {
		if alive(o.DeletedAt) && o.Slug == slug {
			return &o, nil
		}
	}
	return nil, repositories.ErrOfficialNotFound
}

func (r officialRepo) List(_ context.Context, kind models.OfficialKind) ([]models.Official, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	officials := make([]models.Official, 0)
	for _, o := range r.s.officials[kind] {
		if alive(o.DeletedAt) {
			officials = append(officials, o)
		}
	}
	sort.Slice(officials, func(i, j int) bool {
		if officials[i].LastName != officials[j].LastName {
			return officials[i].LastName < officials[j].LastName
		}
		return officials[i].FirstName < officials[j].FirstName
	})
	return officials, nil
}

func (r officialRepo) Update(_ context.Context, kind models.OfficialKind, official *models.Official) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	table := r.s.officials[kind]
	stored, ok := table[official.ID]
	if !ok || !alive(stored.DeletedAt) {
		return repositories.ErrOfficialNotFound
	}
	for id, o := range table {
		if id != official.ID && alive(o.DeletedAt) && o.Slug == official.Slug {
			return repositories.ErrOfficialSlugConflict
		}
	}
	official.CreatedAt = stored.CreatedAt
	official.UpdatedAt = r.s.now()
	table[official.ID] = *official
	return nil
}

func (r officialRepo) Delete(_ context.Context, kind models.OfficialKind, id int) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	table := r.s.officials[kind]
	o, ok := table[id]
	if !ok || !alive(o.DeletedAt) {
		return repositories.ErrOfficialNotFound
	}
	o.DeletedAt = r.s.deletedAt()
	table[id] = o
	return nil
}
