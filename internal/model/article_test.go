package model

import (
	"reflect"
	"testing"

	"gorm.io/datatypes"
)

func TestMergeSourcesUnion(t *testing.T) {
	merged := MergeSources(nil, []string{"https://b.example/rss", "https://a.example/rss"})
	merged = MergeSources(merged, []string{"https://a.example/rss", "https://c.example/rss", ""})

	want := []string{"https://a.example/rss", "https://b.example/rss", "https://c.example/rss"}
	if got := DecodeSources(merged); !reflect.DeepEqual(got, want) {
		t.Fatalf("来源并集 = %v, 期望%v", got, want)
	}
}

func TestDecodeSourcesBadData(t *testing.T) {
	// 脏数据或空值都解出空切片，不panic
	if got := DecodeSources(nil); len(got) != 0 {
		t.Fatalf("空值解出 = %v", got)
	}
	if got := DecodeSources(datatypes.JSON("not-json")); len(got) != 0 {
		t.Fatalf("脏数据解出 = %v", got)
	}
}
