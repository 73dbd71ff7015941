// Package cache holds the per-user UI state lists that never reach the
// store: recently viewed products and the product comparison list. Both are
// bounded in-process containers with no durability.
package cache

import (
	"errors"
	"sync"

	"github.com/shoplinehq/commerce-manager/internal/entity"
)

// ErrFull is returned by the comparison list when adding past capacity.
var ErrFull = errors.New("comparison list is full")

const (
	defaultRecentlyViewedCapacity = 10
	defaultComparisonCapacity     = 4
)

// Config holds the capacities of the per-user lists. Zero means default.
type Config struct {
	RecentlyViewedCapacity int `mapstructure:"recently_viewed_capacity"`
	ComparisonCapacity     int `mapstructure:"comparison_capacity"`
}

// RecentlyViewed is a per-user most-recent-first product list. Touching a
// product moves it to the front; at capacity the oldest entry is dropped.
type RecentlyViewed struct {
	mu       sync.Mutex
	capacity int
	byUser   map[string][]int
}

// NewRecentlyViewed creates the recently-viewed cache.
func NewRecentlyViewed(capacity int) *RecentlyViewed {
	if capacity <= 0 {
		capacity = defaultRecentlyViewedCapacity
	}
	return &RecentlyViewed{
		capacity: capacity,
		byUser:   map[string][]int{},
	}
}

// Touch records a product view and returns the user's updated list.
func (c *RecentlyViewed) Touch(userID string, productID int) []int {
	c.mu.Lock()
	defer c.mu.Unlock()

	list := removeID(c.byUser[userID], productID)
	list = append([]int{productID}, list...)
	if len(list) > c.capacity {
		list = list[:c.capacity]
	}
	c.byUser[userID] = list
	return copyIDs(list)
}

// List returns the user's list, most recent first.
func (c *RecentlyViewed) List(userID string) []int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return copyIDs(c.byUser[userID])
}

// Clear drops the user's list.
func (c *RecentlyViewed) Clear(userID string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.byUser, userID)
}

// Comparison is a per-user product comparison list. Unlike the recently
// viewed list it keeps insertion order and refuses adds past capacity
// instead of evicting.
type Comparison struct {
	mu       sync.Mutex
	capacity int
	byUser   map[string][]int
}

// NewComparison creates the comparison cache.
func NewComparison(capacity int) *Comparison {
	if capacity <= 0 {
		capacity = defaultComparisonCapacity
	}
	return &Comparison{
		capacity: capacity,
		byUser:   map[string][]int{},
	}
}

// Add appends a product to the user's comparison list. Re-adding a present
// product fails with entity.ErrDuplicateEntry, adding past capacity with
// ErrFull.
func (c *Comparison) Add(userID string, productID int) ([]int, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	list := c.byUser[userID]
	for _, id := range list {
		if id == productID {
			return nil, entity.ErrDuplicateEntry
		}
	}
	if len(list) >= c.capacity {
		return nil, ErrFull
	}
	list = append(list, productID)
	c.byUser[userID] = list
	return copyIDs(list), nil
}

// Remove drops a product from the user's list. Removing an absent product
// fails with entity.ErrNotFound.
func (c *Comparison) Remove(userID string, productID int) ([]int, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	list := c.byUser[userID]
	next := removeID(list, productID)
	if len(next) == len(list) {
		return nil, entity.ErrNotFound
	}
	c.byUser[userID] = next
	return copyIDs(next), nil
}

// List returns the user's comparison list in insertion order.
func (c *Comparison) List(userID string) []int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return copyIDs(c.byUser[userID])
}

// Clear drops the user's list.
func (c *Comparison) Clear(userID string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.byUser, userID)
}

func removeID(list []int, productID int) []int {
	out := make([]int, 0, len(list))
	for _, id := range list {
		if id != productID {
			out = append(out, id)
		}
	}
	return out
}

func copyIDs(list []int) []int {
	out := make([]int, len(list))
	copy(out, list)
	return out
}
