package shelf

import (
	"encoding/json"
	"slices"
	"testing"
)

func seq(from, to int64) []int64 {
	out := make([]int64, 0, to-from+1)
	for i := from; i <= to; i++ {
		out = append(out, i)
	}
	return out
}

func TestAdd(t *testing.T) {
	tc := []struct {
		name  string
		list  []int64
		id    int64
		limit int
		want  []int64
	}{
		{name: "append to empty", list: nil, id: 7, limit: 100, want: []int64{7}},
		{name: "append new id", list: []int64{1, 2}, id: 3, limit: 100, want: []int64{1, 2, 3}},
		{name: "re-add moves to end", list: []int64{1, 2, 3}, id: 2, limit: 100, want: []int64{1, 3, 2}},
		{name: "re-add last is stable", list: []int64{1, 2, 3}, id: 3, limit: 100, want: []int64{1, 2, 3}},
		{name: "cap drops oldest", list: []int64{1, 2, 3}, id: 4, limit: 3, want: []int64{2, 3, 4}},
		{name: "re-add on full list keeps length", list: []int64{1, 2, 3}, id: 1, limit: 3, want: []int64{2, 3, 1}},
	}

	for _, tt := range tc {
		t.Run(tt.name, func(t *testing.T) {
			got := Add(tt.list, tt.id, tt.limit)
			if !slices.Equal(got, tt.want) {
				t.Errorf("Add(%v, %d) = %v, want %v", tt.list, tt.id, got, tt.want)
			}
		})
	}

	t.Run("does not mutate input", func(t *testing.T) {
		list := []int64{1, 2, 3}
		_ = Add(list, 1, 3)
		if !slices.Equal(list, []int64{1, 2, 3}) {
			t.Errorf("input mutated: %v", list)
		}
	})

	t.Run("full list drops oldest", func(t *testing.T) {
		full := seq(1, 100)
		got := VideoGames.Add(full, 101)

		if len(got) != 100 {
			t.Fatalf("expected length 100, got %d", len(got))
		}
		if got[0] != 2 {
			t.Errorf("expected first element 2, got %d", got[0])
		}
		if got[len(got)-1] != 101 {
			t.Errorf("expected last element 101, got %d", got[len(got)-1])
		}
	})

	t.Run("length never exceeds cap", func(t *testing.T) {
		for n := int64(0); n <= 25; n++ {
			list := seq(1, n)
			if n == 0 {
				list = nil
			}
			list = Movies.Parse(Movies.Serialize(list))
			got := Movies.Add(list, 999)
			if len(got) > Movies.Cap {
				t.Errorf("len(Add) = %d exceeds cap %d for n=%d", len(got), Movies.Cap, n)
			}
		}
	})

	t.Run("re-add after removal is idempotent", func(t *testing.T) {
		lists := [][]int64{nil, {1}, {1, 2, 3}, {5, 4, 3, 2, 1}, seq(1, 100)}
		for _, list := range lists {
			for _, x := range []int64{1, 3, 50, 200} {
				added := VideoGames.Add(list, x)
				got := VideoGames.Add(VideoGames.Remove(added, x), x)
				if !slices.Equal(got, added) {
					t.Errorf("add(remove(add(%v,%d))) = %v, want %v", list, x, got, added)
				}
			}
		}
	})
}

func TestRemove(t *testing.T) {
	tc := []struct {
		name string
		list []int64
		id   int64
		want []int64
	}{
		{name: "removes middle", list: []int64{4, 5, 6}, id: 5, want: []int64{4, 6}},
		{name: "absent id is a no-op", list: []int64{4, 5, 6}, id: 9, want: []int64{4, 5, 6}},
		{name: "removes every occurrence", list: []int64{1, 2, 1}, id: 1, want: []int64{2}},
		{name: "empty list", list: nil, id: 1, want: []int64{}},
	}

	for _, tt := range tc {
		t.Run(tt.name, func(t *testing.T) {
			got := Remove(tt.list, tt.id)
			if !slices.Equal(got, tt.want) {
				t.Errorf("Remove(%v, %d) = %v, want %v", tt.list, tt.id, got, tt.want)
			}
		})
	}
}

func TestParse(t *testing.T) {
	t.Run("numeric variants", func(t *testing.T) {
		tc := []struct {
			name string
			raw  string
			want []int64
		}{
			{name: "empty", raw: "", want: []int64{}},
			{name: "url-encoded object", raw: "%7Bbad%7D", want: []int64{}},
			{name: "not json", raw: "hello", want: []int64{}},
			{name: "json null", raw: "null", want: []int64{}},
			{name: "json string", raw: "%22abc%22", want: []int64{}},
			{name: "bad escape", raw: "%zz", want: []int64{}},
			{name: "encoded array", raw: "%5B1%2C2%2C3%5D", want: []int64{1, 2, 3}},
			{name: "plain array", raw: "[10,20]", want: []int64{10, 20}},
			{name: "drops invalid elements", raw: `[1,"x",null,-4,0,2.5,{"a":1},true,9223372036854775808,"9223372036854775808",1e30,3]`, want: []int64{1, 3}},
			{name: "largest id", raw: "[9223372036854775807]", want: []int64{9223372036854775807}},
			{name: "trailing data", raw: "[1,2]garbage", want: []int64{}},
			{name: "second value", raw: "[1,2][3]", want: []int64{}},
			{name: "trailing whitespace", raw: "[1,2]%20%0A", want: []int64{1, 2}},
			{name: "accepts numeric strings and integral floats", raw: `["12",13.0,1e2]`, want: []int64{12, 13, 100}},
			{name: "duplicates keep most recent", raw: "[1,2,1]", want: []int64{2, 1}},
		}

		for _, tt := range tc {
			t.Run(tt.name, func(t *testing.T) {
				got := VideoGames.Parse(tt.raw)
				if got == nil {
					t.Fatal("Parse should never return nil")
				}
				if !slices.Equal(got, tt.want) {
					t.Errorf("Parse(%q) = %v, want %v", tt.raw, got, tt.want)
				}
			})
		}
	})

	t.Run("cuts oversized cookie to cap", func(t *testing.T) {
		raw := Movies.Serialize(seq(1, 30))
		got := Movies.Parse(raw)
		if len(got) != Movies.Cap {
			t.Fatalf("expected %d ids, got %d", Movies.Cap, len(got))
		}
		if got[0] != 11 || got[len(got)-1] != 30 {
			t.Errorf("expected the 20 most recent ids, got %v", got)
		}
	})

	t.Run("string variant", func(t *testing.T) {
		tc := []struct {
			name string
			raw  string
			want []string
		}{
			{name: "empty", raw: "", want: []string{}},
			{name: "valid", raw: `["zyTCAlFPjgYC","abc"]`, want: []string{"zyTCAlFPjgYC", "abc"}},
			{name: "drops blanks and numbers", raw: `["", "  ", 12, "ok"]`, want: []string{"ok"}},
			{name: "trims", raw: `[" id "]`, want: []string{"id"}},
			{name: "object", raw: "%7Bbad%7D", want: []string{}},
		}

		for _, tt := range tc {
			t.Run(tt.name, func(t *testing.T) {
				got := Books.Parse(tt.raw)
				if !slices.Equal(got, tt.want) {
					t.Errorf("Parse(%q) = %v, want %v", tt.raw, got, tt.want)
				}
			})
		}
	})
}

func TestSerialize(t *testing.T) {
	t.Run("nil encodes as empty array", func(t *testing.T) {
		if got := VideoGames.Serialize(nil); got != "[]" {
			t.Errorf("expected [], got %s", got)
		}
	})

	t.Run("numbers", func(t *testing.T) {
		if got := VideoGames.Serialize([]int64{3, 1, 2}); got != "[3,1,2]" {
			t.Errorf("expected [3,1,2], got %s", got)
		}
	})

	t.Run("strings", func(t *testing.T) {
		got := Books.Serialize([]string{"a", "b"})
		var decoded []string
		if err := json.Unmarshal([]byte(got), &decoded); err != nil {
			t.Fatalf("serialized value is not json: %v", err)
		}
		if !slices.Equal(decoded, []string{"a", "b"}) {
			t.Errorf("unexpected round trip %v", decoded)
		}
	})
}

func TestCoerce(t *testing.T) {
	if _, ok := VideoGames.Coerce(json.Number("42")); !ok {
		t.Error("expected json number to coerce")
	}
	if _, ok := VideoGames.Coerce(float64(-1)); ok {
		t.Error("negative ids must be rejected")
	}
	if _, ok := Books.Coerce(float64(1)); ok {
		t.Error("books only accept strings")
	}
}

func TestWithCap(t *testing.T) {
	v := Movies.WithCap(5)
	if v.Cap != 5 {
		t.Errorf("expected cap 5, got %d", v.Cap)
	}
	if Movies.Cap != MovieCap {
		t.Error("WithCap must not modify the original variant")
	}
	if Movies.WithCap(0).Cap != MovieCap {
		t.Error("non-positive cap should keep the current cap")
	}
}
