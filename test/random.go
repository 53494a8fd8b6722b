package test

import (
	"math/rand"
	"sort"
	"time"

	"github.com/jaswdr/faker"
	"github.com/onsi/ginkgo/v2"
)

var (
	Faker  = faker.NewWithSeed(Source)
	Rand   = rand.New(Source)
	Source = rand.NewSource(ginkgo.GinkgoRandomSeed())
)

// RandomOwnerId returns an identity in the shape issued by the auth provider.
func RandomOwnerId() string {
	return Faker.UUID().V4()
}

// RandomDistinctTimes returns count distinct millisecond precision instants in
// the past, sorted oldest first.
func RandomDistinctTimes(count int) []time.Time {
	base := time.Now().UTC().Truncate(time.Millisecond).Add(-time.Hour * 24 * 30)
	seen := make(map[int]struct{}, count)
	times := make([]time.Time, 0, count)
	for len(times) < count {
		offset := Rand.Intn(int((time.Hour * 24 * 29).Milliseconds()))
		if _, ok := seen[offset]; ok {
			continue
		}
		seen[offset] = struct{}{}
		times = append(times, base.Add(time.Duration(offset)*time.Millisecond))
	}
	sort.Slice(times, func(i, j int) bool { return times[i].Before(times[j]) })
	return times
}
