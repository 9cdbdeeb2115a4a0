package util

import (
	"os"

	"golang.org/x/exp/constraints"
)

func EnsureDir(path string) error {
	return os.MkdirAll(path, 0777)
}

func Min[A constraints.Ordered](num1 A, num2 A) A {
	if num1 > num2 {
		return num2
	}
	return num1
}

func Max[A constraints.Ordered](num1 A, num2 A) A {
	if num1 < num2 {
		return num2
	}
	return num1
}

func Clamp[A constraints.Ordered](num, lo, hi A) A {
	return Max(lo, Min(num, hi))
}

func Sum[A constraints.Integer | constraints.Float](nums []A) A {
	var total A
	for _, v := range nums {
		total += v
	}
	return total
}

func FileExists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}
