package history

import (
	"fmt"
	"sort"

	"github.com/muesli/clusters"
	"github.com/muesli/kmeans"
)

// InsightConfig holds mood clustering parameters.
type InsightConfig struct {
	NumClusters    int
	MinClusterSize int
}

// DefaultInsightConfig returns the recommended defaults.
func DefaultInsightConfig() InsightConfig {
	return InsightConfig{
		NumClusters:    3,
		MinClusterSize: 3,
	}
}

// MoodInsight is a cluster of listens grouped by audio feature similarity.
type MoodInsight struct {
	Name     string
	Listens  []Listen
	Centroid map[string]float64
}

// listenObservation wraps a Listen for the clusters.Observation interface.
type listenObservation struct {
	listen *Listen
	coords clusters.Coordinates
}

func (o listenObservation) Coordinates() clusters.Coordinates {
	return o.coords
}

func (o listenObservation) Distance(point clusters.Coordinates) float64 {
	return o.coords.Distance(point)
}

var featureNames = []string{"energy", "valence", "danceability", "acousticness"}

// MoodInsights groups listens by audio feature similarity using k-means.
// Listens missing features are returned as the second value. Clusters
// smaller than the configured minimum fold into the unclustered remainder.
func MoodInsights(listens []Listen, cfg InsightConfig) ([]MoodInsight, []Listen) {
	if len(listens) == 0 {
		return nil, nil
	}
	if cfg.NumClusters <= 0 {
		cfg.NumClusters = DefaultInsightConfig().NumClusters
	}

	var valid []*Listen
	var remainder []Listen
	for i := range listens {
		l := &listens[i]
		if hasFeatures(l) {
			valid = append(valid, l)
		} else {
			remainder = append(remainder, *l)
		}
	}

	if len(valid) < cfg.NumClusters {
		for _, l := range valid {
			remainder = append(remainder, *l)
		}
		return nil, remainder
	}

	var obs clusters.Observations
	for _, l := range valid {
		obs = append(obs, listenObservation{
			listen: l,
			coords: extractFeatures(l),
		})
	}

	km := kmeans.New()
	result, err := km.Partition(obs, cfg.NumClusters)
	if err != nil {
		for _, l := range valid {
			remainder = append(remainder, *l)
		}
		return nil, remainder
	}

	var insights []MoodInsight
	for _, cluster := range result {
		var members []Listen
		for _, o := range cluster.Observations {
			if lo, ok := o.(listenObservation); ok {
				members = append(members, *lo.listen)
			}
		}
		if len(members) < cfg.MinClusterSize {
			remainder = append(remainder, members...)
			continue
		}

		centroid := make(map[string]float64, len(featureNames))
		for i, name := range featureNames {
			centroid[name] = cluster.Center[i]
		}

		insights = append(insights, MoodInsight{
			Name:     moodName(centroid),
			Listens:  members,
			Centroid: centroid,
		})
	}

	sort.Slice(insights, func(i, j int) bool {
		return len(insights[i].Listens) > len(insights[j].Listens)
	})
	return insights, remainder
}

func hasFeatures(l *Listen) bool {
	return l.Energy != nil &&
		l.Valence != nil &&
		l.Danceability != nil &&
		l.Acousticness != nil
}

func extractFeatures(l *Listen) clusters.Coordinates {
	return clusters.Coordinates{
		*l.Energy,
		*l.Valence,
		*l.Danceability,
		*l.Acousticness,
	}
}

// moodName names a centroid by its energy/valence quadrant, with an
// acoustic modifier for high acousticness.
func moodName(centroid map[string]float64) string {
	highEnergy := centroid["energy"] > 0.6
	highValence := centroid["valence"] > 0.5

	var base string
	switch {
	case highEnergy && highValence:
		base = "Upbeat Party"
	case highEnergy && !highValence:
		base = "Intense & Dark"
	case !highEnergy && highValence:
		base = "Chill & Happy"
	default:
		base = "Reflective & Melancholy"
	}

	if centroid["acousticness"] > 0.6 {
		return base + " (Acoustic)"
	}
	return base
}

// EmotionFrequency is one dominant emotion with its share of detections.
type EmotionFrequency struct {
	Emotion   string
	Frequency float64
}

// Summary aggregates a user's emotion history.
type Summary struct {
	TotalDetections  int
	DominantEmotions []EmotionFrequency
	AvgIntensity     float64
	AvgConfidence    float64
	Patterns         []string
	Recommendations  []string
}

// AnalyzeEmotionHistory summarizes emotion events: dominant emotions,
// average intensity and confidence, hour-of-day patterns and up to three
// templated recommendations.
func AnalyzeEmotionHistory(events []EmotionEvent) Summary {
	if len(events) == 0 {
		return Summary{}
	}

	counts := map[string]int{}
	var intensitySum, confidenceSum float64
	for _, e := range events {
		counts[e.Emotion]++
		intensitySum += e.Intensity
		confidenceSum += e.Confidence
	}

	total := len(events)
	dominant := make([]EmotionFrequency, 0, len(counts))
	for emotion, count := range counts {
		dominant = append(dominant, EmotionFrequency{
			Emotion:   emotion,
			Frequency: float64(count) / float64(total),
		})
	}
	sort.Slice(dominant, func(i, j int) bool {
		if dominant[i].Frequency != dominant[j].Frequency {
			return dominant[i].Frequency > dominant[j].Frequency
		}
		return dominant[i].Emotion < dominant[j].Emotion
	})
	if len(dominant) > 3 {
		dominant = dominant[:3]
	}

	avgIntensity := intensitySum / float64(total)

	return Summary{
		TotalDetections:  total,
		DominantEmotions: dominant,
		AvgIntensity:     avgIntensity,
		AvgConfidence:    confidenceSum / float64(total),
		Patterns:         hourPatterns(events),
		Recommendations:  historyRecommendations(dominant, avgIntensity),
	}
}

// hourPatterns reports the most common emotion for each hour with at
// least three detections.
func hourPatterns(events []EmotionEvent) []string {
	byHour := map[int][]string{}
	for _, e := range events {
		hour := e.DetectedAt.Hour()
		byHour[hour] = append(byHour[hour], e.Emotion)
	}

	hours := make([]int, 0, len(byHour))
	for hour, emotions := range byHour {
		if len(emotions) > 2 {
			hours = append(hours, hour)
		}
	}
	sort.Ints(hours)

	var patterns []string
	for _, hour := range hours {
		patterns = append(patterns, fmt.Sprintf("Most %s emotions detected around %d:00", mostCommon(byHour[hour]), hour))
	}
	return patterns
}

func mostCommon(values []string) string {
	counts := map[string]int{}
	for _, v := range values {
		counts[v]++
	}
	best, bestCount := "", 0
	for v, c := range counts {
		if c > bestCount || (c == bestCount && v < best) {
			best, bestCount = v, c
		}
	}
	return best
}

func historyRecommendations(dominant []EmotionFrequency, avgIntensity float64) []string {
	var recs []string
	if len(dominant) > 0 {
		switch dominant[0].Emotion {
		case "sad", "anxious":
			recs = append(recs,
				"Consider uplifting music to balance your mood",
				"Try calming instrumental tracks for relaxation",
				"Explore nature sounds or ambient music",
			)
		case "happy", "energetic":
			recs = append(recs,
				"Keep exploring upbeat and danceable tracks",
				"Try discovering new energetic artists",
				"Consider workout or party playlists",
			)
		case "focused", "calm":
			recs = append(recs,
				"Perfect for productivity and concentration",
				"Explore lo-fi or classical music",
				"Try ambient and instrumental tracks",
			)
		}
	}

	if avgIntensity > 0.7 {
		recs = append(recs, "You prefer high-intensity music - explore energetic genres")
	} else if avgIntensity < 0.3 {
		recs = append(recs, "You prefer gentle music - explore acoustic and ambient genres")
	}

	if len(recs) > 3 {
		recs = recs[:3]
	}
	return recs
}
