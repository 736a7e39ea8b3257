package service

import (
	"context"
	"errors"
	"mime/multipart"
	"path"
	"strings"
	"sync"
	"time"

	"github.com/Payphone-Digital/marketplace/internal/model"
	"github.com/Payphone-Digital/marketplace/internal/repository"
	"github.com/Payphone-Digital/marketplace/pkg/imagestore"
	"github.com/google/uuid"
)

// events records the order of side effects across fakes.
type events struct {
	mu  sync.Mutex
	log []string
}

func (e *events) add(s string) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.log = append(e.log, s)
}

func (e *events) list() []string {
	e.mu.Lock()
	defer e.mu.Unlock()
	return append([]string(nil), e.log...)
}

type fakeOfferRepo struct {
	ev        *events
	offers    map[uuid.UUID]model.Offer
	createErr error
	updateErr error
	lastList  repository.OfferFilter
	listCalls int
}

func newFakeOfferRepo(ev *events) *fakeOfferRepo {
	return &fakeOfferRepo{ev: ev, offers: map[uuid.UUID]model.Offer{}}
}

func (r *fakeOfferRepo) Create(_ context.Context, offer *model.Offer) error {
	r.ev.add("repo.create")
	if r.createErr != nil {
		return r.createErr
	}
	r.offers[offer.ID] = *offer
	return nil
}

func (r *fakeOfferRepo) GetByID(_ context.Context, id uuid.UUID) (*model.Offer, error) {
	o, ok := r.offers[id]
	if !ok {
		return nil, nil
	}
	return &o, nil
}

func (r *fakeOfferRepo) Update(_ context.Context, offer *model.Offer) error {
	r.ev.add("repo.update")
	if r.updateErr != nil {
		return r.updateErr
	}
	r.offers[offer.ID] = *offer
	return nil
}

func (r *fakeOfferRepo) Delete(_ context.Context, id uuid.UUID) error {
	r.ev.add("repo.delete")
	delete(r.offers, id)
	return nil
}

func (r *fakeOfferRepo) List(_ context.Context, filter repository.OfferFilter) ([]model.Offer, int64, error) {
	r.listCalls++
	r.lastList = filter
	out := make([]model.Offer, 0, len(r.offers))
	for _, o := range r.offers {
		out = append(out, o)
	}
	return out, int64(len(out)), nil
}

type fakeImageStore struct {
	ev        *events
	uploadErr error
	deleteErr error
	uploads   int
	deleted   []string
}

func (s *fakeImageStore) Upload(_ context.Context, file *multipart.FileHeader, folder string) (imagestore.Image, error) {
	s.ev.add("store.upload:" + folder)
	if s.uploadErr != nil {
		return imagestore.Image{}, s.uploadErr
	}
	s.uploads++
	id := path.Join(folder, strings.TrimSuffix(file.Filename, path.Ext(file.Filename)))
	return imagestore.Image{
		PublicID:  id,
		Folder:    folder,
		SecureURL: "https://img.test/" + id,
	}, nil
}

func (s *fakeImageStore) Delete(_ context.Context, publicID, folder string) error {
	s.ev.add("store.delete:" + publicID)
	if s.deleteErr != nil {
		return s.deleteErr
	}
	s.deleted = append(s.deleted, publicID)
	return nil
}

// memoryRedis is an in-memory redis.Client.
type memoryRedis struct {
	mu   sync.Mutex
	data map[string][]byte
	sets int
}

func newMemoryRedis() *memoryRedis {
	return &memoryRedis{data: map[string][]byte{}}
}

func (m *memoryRedis) IsEnabled() bool { return true }

func (m *memoryRedis) Ping(context.Context) error { return nil }

func (m *memoryRedis) Close() error { return nil }

func (m *memoryRedis) Get(_ context.Context, key string) ([]byte, bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	v, ok := m.data[key]
	return v, ok, nil
}

func (m *memoryRedis) Set(_ context.Context, key string, value []byte, _ time.Duration) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.sets++
	m.data[key] = value
	return nil
}

func (m *memoryRedis) DeleteByPattern(_ context.Context, pattern string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	prefix := strings.TrimSuffix(pattern, "*")
	for k := range m.data {
		if strings.HasPrefix(k, prefix) {
			delete(m.data, k)
		}
	}
	return nil
}

type fakeAccountRepo struct {
	byID map[uuid.UUID]*model.Account
}

func newFakeAccountRepo() *fakeAccountRepo {
	return &fakeAccountRepo{byID: map[uuid.UUID]*model.Account{}}
}

func (r *fakeAccountRepo) GetByID(_ context.Context, id uuid.UUID) (*model.Account, error) {
	return r.byID[id], nil
}

func (r *fakeAccountRepo) GetByEmail(_ context.Context, email string) (*model.Account, error) {
	for _, a := range r.byID {
		if a.Email == email {
			return a, nil
		}
	}
	return nil, nil
}

func (r *fakeAccountRepo) Create(_ context.Context, account *model.Account) error {
	if account.ID == uuid.Nil {
		account.ID = uuid.New()
	}
	r.byID[account.ID] = account
	return nil
}

func (r *fakeAccountRepo) UpdateLastLogin(_ context.Context, id uuid.UUID) error {
	a, ok := r.byID[id]
	if !ok {
		return errors.New("account not found")
	}
	a.LastLogin = time.Now()
	return nil
}

func picture(name string) *multipart.FileHeader {
	return &multipart.FileHeader{Filename: name}
}
