package jsondup

import (
	"reflect"
	"testing"
)

func TestFind(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want []Duplicate
	}{
		{name: "no dup", in: `{"a":1,"b":2}`},
		{name: "root dup", in: `{"a":1,"a":2}`, want: []Duplicate{{Path: "/a", Key: "a"}}},
		{
			name: "nested in array",
			in:   `{"timeline":{"actors":[{"id":"p1"},{"id":"p2","id":"p3"}]}}`,
			want: []Duplicate{{Path: "/timeline/actors/1/id", Key: "id"}},
		},
		{
			name: "after nested containers",
			in:   `{"x":{"y":[1,[2,3],{"z":true}]},"w":null,"x":0}`,
			want: []Duplicate{{Path: "/x", Key: "x"}},
		},
		{name: "same key in sibling objects", in: `[{"a":1},{"a":2}]`},
		{name: "escaped key", in: `{"a/b":1,"a/b":2}`, want: []Duplicate{{Path: "/a~1b", Key: "a/b"}}},
		{name: "string values are not keys", in: `{"a":"a","b":"a"}`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Find([]byte(tt.in))
			if err != nil {
				t.Fatalf("err: %v", err)
			}
			if !reflect.DeepEqual(got, tt.want) {
				t.Fatalf("got %+v, want %+v", got, tt.want)
			}
		})
	}
}

func TestFind_SyntaxError(t *testing.T) {
	if _, err := Find([]byte(`{"a":`)); err == nil {
		t.Fatalf("expected error for truncated input")
	}
}
