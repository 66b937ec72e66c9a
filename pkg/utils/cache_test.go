package utils

import (
	"testing"
	"time"
)

func TestCache(t *testing.T) {
	SetCache("k1", "v1", time.Minute)

	v, ok := GetCache("k1")
	if !ok || v.(string) != "v1" {
		t.Errorf("GetCache = %v, %v", v, ok)
	}

	// 过期后取不到
	SetCache("k2", 42, time.Millisecond)
	time.Sleep(5 * time.Millisecond)
	if _, ok := GetCache("k2"); ok {
		t.Errorf("过期键应取不到")
	}

	DeleteCache("k1")
	if _, ok := GetCache("k1"); ok {
		t.Errorf("删除后应取不到")
	}

	if _, ok := GetCache("never-set"); ok {
		t.Errorf("未设置的键应取不到")
	}
}

func TestRandomUpperString(t *testing.T) {
	s := RandomUpperString(4)
	if len(s) != 4 {
		t.Fatalf("len = %d, want 4", len(s))
	}
	for _, ch := range s {
		if !((ch >= 'A' && ch <= 'Z') || (ch >= '0' && ch <= '9')) {
			t.Errorf("非法字符: %c", ch)
		}
	}

	if RandomUpperString(0) != "" {
		t.Errorf("n=0 应返回空串")
	}
}
