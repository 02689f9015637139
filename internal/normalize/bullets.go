package normalize

import "github.com/jonathan/resume-optimizer/internal/types"

// PlaceholderBullet pads experience entries that came back with too few bullets
const PlaceholderBullet = "Contributed to key projects and deliverables."

// DefaultBulletTargets are the per-position bullet counts for the three most recent jobs
func DefaultBulletTargets() []int {
	return []int{7, 6, 4}
}

// NormalizeBulletCounts pads or truncates the bullets of the first len(targets)
// entries so entry i has exactly targets[i] bullets. Entries beyond the targets
// are returned unchanged. The input slice is not modified.
func NormalizeBulletCounts(experience []types.ExperienceEntry, targets []int) []types.ExperienceEntry {
	out := types.CloneExperience(experience)

	for i := 0; i < len(out) && i < len(targets); i++ {
		target := targets[i]
		if target < 0 {
			target = 0
		}

		bullets := out[i].Bullets
		switch {
		case len(bullets) > target:
			bullets = bullets[:target]
		case len(bullets) < target:
			for len(bullets) < target {
				bullets = append(bullets, PlaceholderBullet)
			}
		}
		if bullets == nil {
			bullets = []string{}
		}
		out[i].Bullets = bullets
	}

	return out
}
