package util

import (
	"fmt"
	"math/rand"
	"time"
)

var random = rand.New(rand.NewSource(time.Now().UnixNano())) // nolint:gosec

var adjectives = []string{
	"Sly", "Bold", "Quiet", "Lucky", "Honest", "Shifty", "Daring", "Cunning", "Swift", "Patient",
	"Brave", "Sneaky", "Clever", "Stoic", "Grinning", "Calm", "Wily", "Fearless", "Smug", "Cheery",
}

var animals = []string{
	"Fox", "Raven", "Badger", "Otter", "Lynx", "Weasel", "Magpie", "Coyote", "Ferret", "Jackal",
	"Owl", "Stoat", "Heron", "Crow", "Mink", "Viper", "Possum", "Marten", "Shrike", "Ocelot",
}

// GetRandomName returns a random display name by combining an adjective with an animal
func GetRandomName() string {
	return fmt.Sprintf("%s %s", adjectives[random.Intn(len(adjectives))], animals[random.Intn(len(animals))])
}
