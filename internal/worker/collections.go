package worker

import (
	"slices"
	"sync"

	"gift_wheel/internal/domain/entity"
)

// Collections — список коллекций для синхронизации. Пустой список
// значит «все коллекции маркетплейса».
type Collections struct {
	mu    sync.Mutex
	items []entity.Collection
}

func NewCollections(addresses ...string) *Collections {
	c := &Collections{}
	c.Add(addresses...)
	return c
}

// Add добавляет адреса, пропуская уже известные
func (c *Collections) Add(addresses ...string) {
	c.mu.Lock()
	defer c.mu.Unlock()

	for _, addr := range addresses {
		if addr == "" || c.indexOf(addr) >= 0 {
			continue
		}
		c.items = append(c.items, entity.Collection{Address: addr})
	}
}

// Remove удаляет адрес, сохраняя порядок. false — адреса не было.
func (c *Collections) Remove(address string) bool {
	c.mu.Lock()
	defer c.mu.Unlock()

	i := c.indexOf(address)
	if i < 0 {
		return false
	}

	c.items = slices.Delete(c.items, i, i+1)
	return true
}

// List возвращает копию текущего списка
func (c *Collections) List() []entity.Collection {
	c.mu.Lock()
	defer c.mu.Unlock()

	if len(c.items) == 0 {
		return nil
	}

	return slices.Clone(c.items)
}

func (c *Collections) Set(addresses []string) {
	c.mu.Lock()
	c.items = nil
	c.mu.Unlock()

	c.Add(addresses...)
}

func (c *Collections) Has(address string) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.indexOf(address) >= 0
}

func (c *Collections) indexOf(address string) int {
	return slices.IndexFunc(c.items, func(it entity.Collection) bool { return it.Address == address })
}
