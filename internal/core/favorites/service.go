package favorites

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"recipe-finder/internal/core/recipe"
	"recipe-finder/internal/core/store"
	"recipe-finder/internal/pkg/common"

	"go.uber.org/zap"
)

const keyPrefix = "favorites:"

// Favorite 使用者收藏的食譜
type Favorite struct {
	ID      string    `json:"id"`
	Name    string    `json:"name"`
	AddedAt time.Time `json:"added_at"`
}

// Service 管理使用者的我的最愛清單
type Service struct {
	kv  store.KV
	now func() time.Time

	// 讀取-修改-寫回需要序列化
	mu sync.Mutex
}

// NewService 創建我的最愛服務
func NewService(kv store.KV) *Service {
	return &Service{kv: kv, now: time.Now}
}

// List 回傳使用者的收藏，依加入順序
func (s *Service) List(ctx context.Context, user string) ([]Favorite, error) {
	key, err := userKey(user)
	if err != nil {
		return nil, err
	}
	return s.load(ctx, key)
}

// Toggle 未收藏時加入，已收藏時移除；回傳是否為加入
func (s *Service) Toggle(ctx context.Context, user string, r recipe.Recipe) (bool, error) {
	key, err := userKey(user)
	if err != nil {
		return false, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	favs, err := s.load(ctx, key)
	if err != nil {
		return false, err
	}

	if i := indexOf(favs, r.ID, r.Name); i >= 0 {
		favs = append(favs[:i], favs[i+1:]...)
		if err := s.save(ctx, key, favs); err != nil {
			return false, err
		}
		common.LogDebug("移除收藏", zap.String("user", user), zap.String("recipe_id", r.ID))
		return false, nil
	}

	favs = append(favs, Favorite{ID: r.ID, Name: r.Name, AddedAt: s.now().UTC()})
	if err := s.save(ctx, key, favs); err != nil {
		return false, err
	}
	common.LogDebug("加入收藏", zap.String("user", user), zap.String("recipe_id", r.ID))
	return true, nil
}

// Remove 依 id 移除收藏；回傳是否有項目被移除
func (s *Service) Remove(ctx context.Context, user, id string) (bool, error) {
	key, err := userKey(user)
	if err != nil {
		return false, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	favs, err := s.load(ctx, key)
	if err != nil {
		return false, err
	}
	i := indexOf(favs, id, "")
	if i < 0 {
		return false, nil
	}
	favs = append(favs[:i], favs[i+1:]...)
	return true, s.save(ctx, key, favs)
}

// IsFavorite 判斷食譜是否已收藏
func (s *Service) IsFavorite(ctx context.Context, user, id string) (bool, error) {
	favs, err := s.List(ctx, user)
	if err != nil {
		return false, err
	}
	return indexOf(favs, id, "") >= 0, nil
}

func (s *Service) load(ctx context.Context, key string) ([]Favorite, error) {
	data, err := s.kv.Get(ctx, key)
	if errors.Is(err, store.ErrNotFound) {
		return []Favorite{}, nil
	}
	if err != nil {
		return nil, common.ErrStoreUnavailable.Wrap(err)
	}

	var favs []Favorite
	if err := json.Unmarshal(data, &favs); err != nil {
		return nil, fmt.Errorf("decode favorites %s: %w", key, err)
	}
	if favs == nil {
		favs = []Favorite{}
	}
	return favs, nil
}

func (s *Service) save(ctx context.Context, key string, favs []Favorite) error {
	if len(favs) == 0 {
		if err := s.kv.Delete(ctx, key); err != nil {
			return common.ErrStoreUnavailable.Wrap(err)
		}
		return nil
	}

	data, err := json.Marshal(favs)
	if err != nil {
		return fmt.Errorf("encode favorites: %w", err)
	}
	if err := s.kv.Set(ctx, key, data); err != nil {
		return common.ErrStoreUnavailable.Wrap(err)
	}
	return nil
}

func userKey(user string) (string, error) {
	user = strings.TrimSpace(user)
	if user == "" {
		return "", common.NewValidationError("user is required")
	}
	return keyPrefix + user, nil
}

// indexOf 以 id 比對；沒有 id 的項目以名稱比對
func indexOf(favs []Favorite, id, name string) int {
	for i, f := range favs {
		if id != "" && f.ID == id {
			return i
		}
		if name != "" && (id == "" || f.ID == "") && strings.EqualFold(f.Name, name) {
			return i
		}
	}
	return -1
}
