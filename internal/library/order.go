package library

import (
	"fmt"
	"math/rand"
	"time"
)

// Order selects how a node's images are sequenced for playback.
type Order int

const (
	// OrderForward plays images in filename order.
	OrderForward Order = iota
	// OrderReverse plays images in reverse filename order.
	OrderReverse
	// OrderRandom plays a seeded permutation.
	OrderRandom
)

// ParseOrder maps a CLI/config string to an Order.
func ParseOrder(s string) (Order, error) {
	switch s {
	case "forward", "":
		return OrderForward, nil
	case "reverse":
		return OrderReverse, nil
	case "random":
		return OrderRandom, nil
	}
	return 0, fmt.Errorf("library: unknown order %q (want forward, reverse or random)", s)
}

// String returns the lowercase order name.
func (o Order) String() string {
	switch o {
	case OrderForward:
		return "forward"
	case OrderReverse:
		return "reverse"
	case OrderRandom:
		return "random"
	}
	return "unknown"
}

// Arrange returns a new slice with images permuted for playback. For
// OrderRandom, seed makes the permutation reproducible; seed zero derives one
// from the current time.
func Arrange(images []Image, order Order, seed int64) []Image {
	out := make([]Image, len(images))
	copy(out, images)

	switch order {
	case OrderReverse:
		for i, j := 0, len(out)-1; i < j; i, j = i+1, j-1 {
			out[i], out[j] = out[j], out[i]
		}
	case OrderRandom:
		if seed == 0 {
			seed = time.Now().UnixNano()
		}
		r := rand.New(rand.NewSource(seed))
		r.Shuffle(len(out), func(i, j int) {
			out[i], out[j] = out[j], out[i]
		})
	}
	return out
}
