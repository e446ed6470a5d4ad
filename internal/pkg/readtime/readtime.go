// Package readtime estimates how long an article takes to read.
package readtime

import (
	"math"
	"strings"
	"time"
)

const (
	WordsPerMinute = 275

	// The first image costs firstImageCost, every following one a second less,
	// never dropping below minImageCost.
	firstImageCost = 12 * time.Second
	minImageCost   = 3 * time.Second
	videoCost      = 12 * time.Second
)

type Content struct {
	Images []string
	Videos []string
	Words  string
}

// Estimate returns the read time for c rounded up to the next full second.
func Estimate(c Content) time.Duration {
	words := len(strings.Fields(c.Words))
	wordTime := time.Duration(math.Ceil(float64(words) / WordsPerMinute * 60)) * time.Second

	var mediaTime time.Duration
	for i := 0; i < countNonEmpty(c.Images); i++ {
		cost := firstImageCost - time.Duration(i)*time.Second
		if cost < minImageCost {
			cost = minImageCost
		}
		mediaTime += cost
	}
	mediaTime += time.Duration(countNonEmpty(c.Videos)) * videoCost

	return wordTime + mediaTime
}

func countNonEmpty(items []string) int {
	n := 0
	for _, item := range items {
		if strings.TrimSpace(item) != "" {
			n++
		}
	}
	return n
}
