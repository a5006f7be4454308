package model

import "testing"

func TestNewPageQueryFromPage(t *testing.T) {
	cases := []struct {
		name       string
		page, size int
		wantOffset int
		wantLimit  int
	}{
		{"常规翻页", 3, 10, 20, 10},
		{"省略参数取默认值", 0, 0, 0, 10},
		{"负页码保留非法偏移", -1, 10, -1, 10},
		{"负大小保留非法上限", 1, -5, 0, -5},
		{"页码大小同为负数", -1, -5, -1, -5},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			q := NewPageQueryFromPage(tc.page, tc.size, "", "")
			if q.Offset != tc.wantOffset || q.Limit != tc.wantLimit {
				t.Errorf("期望 offset=%d limit=%d, 实际 offset=%d limit=%d",
					tc.wantOffset, tc.wantLimit, q.Offset, q.Limit)
			}
		})
	}
}
