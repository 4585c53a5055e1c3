package tags

import (
	"strings"

	"github.com/justestif/go-mood-journal/internal/lastfm"
	"github.com/justestif/go-mood-journal/internal/mood"
)

// maxWeightedTags bounds how many of a track's top tags contribute.
const maxWeightedTags = 10

// tagFeatures anchors well-known Last.fm tags in energy/valence space.
var tagFeatures = map[string]mood.Features{
	"happy":       {Energy: 0.7, Valence: 0.9},
	"feel good":   {Energy: 0.7, Valence: 0.9},
	"uplifting":   {Energy: 0.7, Valence: 0.85},
	"upbeat":      {Energy: 0.8, Valence: 0.8},
	"fun":         {Energy: 0.8, Valence: 0.85},
	"party":       {Energy: 0.9, Valence: 0.8},
	"dance":       {Energy: 0.85, Valence: 0.75},
	"energetic":   {Energy: 0.9, Valence: 0.6},
	"pop":         {Energy: 0.65, Valence: 0.7},
	"electronic":  {Energy: 0.75, Valence: 0.55},
	"hip-hop":     {Energy: 0.7, Valence: 0.55},
	"rock":        {Energy: 0.7, Valence: 0.5},
	"punk":        {Energy: 0.9, Valence: 0.5},
	"metal":       {Energy: 0.9, Valence: 0.3},
	"angry":       {Energy: 0.9, Valence: 0.2},
	"aggressive":  {Energy: 0.95, Valence: 0.2},
	"dark":        {Energy: 0.5, Valence: 0.2},
	"sad":         {Energy: 0.3, Valence: 0.15},
	"melancholy":  {Energy: 0.3, Valence: 0.2},
	"melancholic": {Energy: 0.3, Valence: 0.2},
	"depressing":  {Energy: 0.2, Valence: 0.1},
	"blues":       {Energy: 0.4, Valence: 0.3},
	"soul":        {Energy: 0.5, Valence: 0.65},
	"romantic":    {Energy: 0.4, Valence: 0.7},
	"love":        {Energy: 0.45, Valence: 0.7},
	"jazz":        {Energy: 0.4, Valence: 0.6},
	"folk":        {Energy: 0.35, Valence: 0.5},
	"acoustic":    {Energy: 0.3, Valence: 0.5},
	"mellow":      {Energy: 0.3, Valence: 0.5},
	"chill":       {Energy: 0.3, Valence: 0.6},
	"chillout":    {Energy: 0.3, Valence: 0.6},
	"relaxing":    {Energy: 0.2, Valence: 0.6},
	"calm":        {Energy: 0.2, Valence: 0.6},
	"peaceful":    {Energy: 0.15, Valence: 0.7},
	"ambient":     {Energy: 0.2, Valence: 0.5},
	"classical":   {Energy: 0.3, Valence: 0.5},
}

// normalizeTag lowercases and unifies separators so "Hip Hop", "hip_hop"
// and "hip-hop" compare equal where the table uses a hyphen.
func normalizeTag(name string) string {
	name = strings.ToLower(strings.TrimSpace(name))
	name = strings.ReplaceAll(name, "_", " ")
	if name == "hip hop" || name == "hiphop" {
		return "hip-hop"
	}
	return name
}

// Estimate returns the weighted centroid of the known tags among a track's
// top tags. Tags are weighted by their Last.fm count, or by rank when counts
// are absent. It reports false if no tag is recognized.
func Estimate(tags []lastfm.Tag) (mood.Features, bool) {
	if len(tags) > maxWeightedTags {
		tags = tags[:maxWeightedTags]
	}

	var energy, valence, total float64
	for i, tag := range tags {
		anchor, ok := tagFeatures[normalizeTag(tag.Name)]
		if !ok {
			continue
		}
		weight := float64(tag.Count)
		if weight <= 0 {
			weight = float64(len(tags) - i)
		}
		energy += anchor.Energy * weight
		valence += anchor.Valence * weight
		total += weight
	}

	if total == 0 {
		return mood.Features{}, false
	}
	return mood.Features{Energy: energy / total, Valence: valence / total}, true
}
