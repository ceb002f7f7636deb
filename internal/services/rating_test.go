package services

import (
	"math"
	"reflect"
	"testing"
)

func TestComputeAggregate_EmptySet(t *testing.T) {
	agg := ComputeAggregate(nil)

	if agg.AverageRating != 0 {
		t.Errorf("AverageRating = %v, expected 0", agg.AverageRating)
	}
	if agg.TotalReviews != 0 {
		t.Errorf("TotalReviews = %d, expected 0", agg.TotalReviews)
	}
	for star := 1; star <= 5; star++ {
		if agg.RatingDistribution[star] != 0 {
			t.Errorf("distribution[%d] = %d, expected 0", star, agg.RatingDistribution[star])
		}
	}
}

func TestComputeAggregate_SingleRating(t *testing.T) {
	agg := ComputeAggregate([]int{4})

	if agg.AverageRating != 4 {
		t.Errorf("AverageRating = %v, expected 4", agg.AverageRating)
	}
	if agg.TotalReviews != 1 {
		t.Errorf("TotalReviews = %d, expected 1", agg.TotalReviews)
	}
	if agg.RatingDistribution[4] != 1 {
		t.Errorf("distribution[4] = %d, expected 1", agg.RatingDistribution[4])
	}
}

func TestComputeAggregate_Rounding(t *testing.T) {
	tests := []struct {
		name    string
		ratings []int
		want    float64
	}{
		{"two thirds", []int{5, 4, 4}, 4.3},     // 13/3 = 4.333...
		{"one third", []int{5, 5, 4}, 4.7},      // 14/3 = 4.666...
		{"exact half", []int{4, 5}, 4.5},        // 9/2
		{"quarter rounds", []int{3, 3, 3, 4}, 3.3}, // 13/4 = 3.25
		{"all same", []int{2, 2, 2}, 2},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			agg := ComputeAggregate(tt.ratings)
			if agg.AverageRating != tt.want {
				t.Errorf("AverageRating = %v, expected %v", agg.AverageRating, tt.want)
			}
		})
	}
}

func TestComputeAggregate_SingleDecimalPlace(t *testing.T) {
	agg := ComputeAggregate([]int{1, 2, 3, 4, 5, 5, 4})

	scaled := agg.AverageRating * 10
	if scaled != math.Trunc(scaled) {
		t.Errorf("AverageRating %v has more than one decimal place", agg.AverageRating)
	}
}

func TestComputeAggregate_Distribution(t *testing.T) {
	agg := ComputeAggregate([]int{5, 5, 5, 3, 1, 1})

	want := map[int]int{1: 2, 2: 0, 3: 1, 4: 0, 5: 3}
	for star, count := range want {
		if agg.RatingDistribution[star] != count {
			t.Errorf("distribution[%d] = %d, expected %d", star, agg.RatingDistribution[star], count)
		}
	}

	total := 0
	for _, count := range agg.RatingDistribution {
		total += count
	}
	if total != agg.TotalReviews {
		t.Errorf("distribution sums to %d, TotalReviews is %d", total, agg.TotalReviews)
	}
}

func TestComputeAggregate_Deterministic(t *testing.T) {
	ratings := []int{5, 4, 3, 2, 1, 4, 4, 5}

	first := ComputeAggregate(ratings)
	second := ComputeAggregate(ratings)

	if first.AverageRating != second.AverageRating {
		t.Errorf("averages differ: %v vs %v", first.AverageRating, second.AverageRating)
	}
	if first.TotalReviews != second.TotalReviews {
		t.Errorf("totals differ: %d vs %d", first.TotalReviews, second.TotalReviews)
	}
	if !reflect.DeepEqual(first.RatingDistribution, second.RatingDistribution) {
		t.Errorf("distributions differ: %v vs %v", first.RatingDistribution, second.RatingDistribution)
	}
}

func TestComputeAggregate_AverageWithinScale(t *testing.T) {
	tests := [][]int{
		{1}, {5}, {1, 1, 1}, {5, 5, 5, 5}, {1, 2, 3, 4, 5},
	}

	for _, ratings := range tests {
		agg := ComputeAggregate(ratings)
		if agg.AverageRating < 1 || agg.AverageRating > 5 {
			t.Errorf("AverageRating %v out of [1,5] for %v", agg.AverageRating, ratings)
		}
	}
}
