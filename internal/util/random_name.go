package util

import (
	"fmt"
	"math/rand"
	"time"
)

var random = rand.New(rand.NewSource(time.Now().UnixNano())) // nolint:gosec

var adjectives = []string{
	"Lucky", "Bluffing", "Stoic", "Reckless", "Patient", "Crafty", "Silent", "Fearless", "Smooth", "Wild",
	"Sneaky", "Steady", "Bold", "Icy", "Loose", "Tight", "Daring", "Clever", "Ruthless", "Calm",
}

var animals = []string{
	"Shark", "Fish", "Donkey", "Fox", "Wolf", "Owl", "Tiger", "Cobra", "Falcon", "Badger",
	"Raven", "Lynx", "Viper", "Stallion", "Panther", "Coyote", "Hawk", "Mongoose", "Jackal", "Bison",
}

// GetRandomName returns a random name by combining an adjective with an
// animal
func GetRandomName() string {
	return fmt.Sprintf("%s %s", adjectives[random.Intn(len(adjectives))], animals[random.Intn(len(animals))])
}
