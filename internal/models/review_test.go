package models

import (
	"testing"
)

func TestEmptyDistribution(t *testing.T) {
	dist := EmptyDistribution()

	if len(dist) != 5 {
		t.Errorf("expected 5 buckets, got %d", len(dist))
	}
	for star := 1; star <= 5; star++ {
		if dist[star] != 0 {
			t.Errorf("bucket %d = %d, expected 0", star, dist[star])
		}
	}
}

func TestRatingDistribution_Value(t *testing.T) {
	dist := RatingDistribution{1: 0, 2: 1, 3: 0, 4: 2, 5: 7}

	v, err := dist.Value()
	if err != nil {
		t.Fatalf("Value() error: %v", err)
	}
	s, ok := v.(string)
	if !ok {
		t.Fatalf("Value() should return a string, got %T", v)
	}

	var parsed RatingDistribution
	if err := parsed.Scan(s); err != nil {
		t.Fatalf("Scan() error: %v", err)
	}
	if parsed[5] != 7 || parsed[4] != 2 || parsed[2] != 1 {
		t.Errorf("round trip mismatch: %v", parsed)
	}
}

func TestRatingDistribution_Value_Nil(t *testing.T) {
	var dist RatingDistribution

	v, err := dist.Value()
	if err != nil {
		t.Fatalf("Value() error: %v", err)
	}

	var parsed RatingDistribution
	if err := parsed.Scan(v); err != nil {
		t.Fatalf("Scan() error: %v", err)
	}
	for star := 1; star <= 5; star++ {
		if parsed[star] != 0 {
			t.Errorf("nil distribution should serialize as all-zero, bucket %d = %d", star, parsed[star])
		}
	}
}

func TestRatingDistribution_Scan_NullAndEmpty(t *testing.T) {
	var dist RatingDistribution
	if err := dist.Scan(nil); err != nil {
		t.Fatalf("Scan(nil) error: %v", err)
	}
	if len(dist) != 5 {
		t.Errorf("Scan(nil) should yield the empty distribution, got %v", dist)
	}

	var fromEmpty RatingDistribution
	if err := fromEmpty.Scan(""); err != nil {
		t.Fatalf("Scan(\"\") error: %v", err)
	}
	if len(fromEmpty) != 5 {
		t.Errorf("Scan(\"\") should yield the empty distribution, got %v", fromEmpty)
	}
}

func TestRatingDistribution_Scan_Bytes(t *testing.T) {
	var dist RatingDistribution
	if err := dist.Scan([]byte(`{"1":1,"2":0,"3":0,"4":0,"5":3}`)); err != nil {
		t.Fatalf("Scan([]byte) error: %v", err)
	}
	if dist[1] != 1 || dist[5] != 3 {
		t.Errorf("unexpected distribution: %v", dist)
	}
}
