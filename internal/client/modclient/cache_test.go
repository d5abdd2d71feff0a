package modclient

import (
	"strconv"
	"testing"

	"github.com/ivankudzin/worklance/backend/internal/domain/model"
)

func TestVerdictCacheEvictsOldestInserted(t *testing.T) {
	cache := newVerdictCache(100)

	for i := 0; i < 100; i++ {
		key := cacheKey{contentType: "message", text: "текст " + strconv.Itoa(i)}
		cache.Put(key, model.Verdict{Confidence: float64(i)})
	}
	if cache.Len() != 100 {
		t.Fatalf("expected 100 entries, got %d", cache.Len())
	}

	cache.Put(cacheKey{contentType: "message", text: "текст 100"}, model.Verdict{})

	if cache.Len() != 100 {
		t.Fatalf("cache must not exceed capacity, got %d", cache.Len())
	}
	if _, ok := cache.Get(cacheKey{contentType: "message", text: "текст 0"}); ok {
		t.Fatalf("oldest entry should have been evicted")
	}
	if _, ok := cache.Get(cacheKey{contentType: "message", text: "текст 100"}); !ok {
		t.Fatalf("new entry should be present")
	}
	if _, ok := cache.Get(cacheKey{contentType: "message", text: "текст 1"}); !ok {
		t.Fatalf("second-oldest entry should survive a single eviction")
	}
}

func TestVerdictCacheUpdateKeepsOrder(t *testing.T) {
	cache := newVerdictCache(2)

	first := cacheKey{contentType: "message", text: "первый"}
	second := cacheKey{contentType: "message", text: "второй"}

	cache.Put(first, model.Verdict{Confidence: 0.1})
	cache.Put(second, model.Verdict{Confidence: 0.2})
	cache.Put(first, model.Verdict{Confidence: 0.9})

	if cache.Len() != 2 {
		t.Fatalf("update must not grow the cache, got %d", cache.Len())
	}

	cache.Put(cacheKey{contentType: "message", text: "третий"}, model.Verdict{})

	// first was refreshed in place, so it is still the oldest insert.
	if _, ok := cache.Get(first); ok {
		t.Fatalf("expected first entry to be evicted")
	}
	if verdict, ok := cache.Get(second); !ok || verdict.Confidence != 0.2 {
		t.Fatalf("expected second entry to survive, got %+v ok=%v", verdict, ok)
	}
}

func TestVerdictCacheKeyIncludesContentType(t *testing.T) {
	cache := newVerdictCache(10)

	cache.Put(cacheKey{contentType: "message", text: "привет"}, model.Verdict{Confidence: 0.5})

	if _, ok := cache.Get(cacheKey{contentType: "proposal", text: "привет"}); ok {
		t.Fatalf("same text under another content type must miss")
	}
}
