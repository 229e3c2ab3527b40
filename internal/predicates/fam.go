// internal/predicates/fam.go
package predicates

import (
	"time"

	"github.com/solatis/ilrkeeper/internal/types"
)

// FAM lookups shared by delivery-level rules. Type and code tokens fold case.

func famDateFrom(f *types.LearningDeliveryFAM) *time.Time { return f.LearnDelFAMDateFrom }
func famDateTo(f *types.LearningDeliveryFAM) *time.Time   { return f.LearnDelFAMDateTo }

// FAMsOfType returns the delivery FAMs of famType in input order.
func FAMsOfType(fams []*types.LearningDeliveryFAM, famType string) []*types.LearningDeliveryFAM {
	folded := Fold(famType)
	return Filter(fams, func(f *types.LearningDeliveryFAM) bool {
		return Fold(f.LearnDelFAMType) == folded
	})
}

// HasFAMType reports whether any FAM has famType.
func HasFAMType(fams []*types.LearningDeliveryFAM, famType string) bool {
	return len(FAMsOfType(fams, famType)) > 0
}

// LatestFAM returns the FAM of famType with the greatest DateFrom.
// FAMs without a DateFrom are never selected.
func LatestFAM(fams []*types.LearningDeliveryFAM, famType string) *types.LearningDeliveryFAM {
	return Latest(FAMsOfType(fams, famType), famDateFrom)
}

// FAMCovering returns the first FAM of famType whose period covers d.
func FAMCovering(fams []*types.LearningDeliveryFAM, famType string, d time.Time) *types.LearningDeliveryFAM {
	for _, f := range FAMsOfType(fams, famType) {
		if Covers(d, f.LearnDelFAMDateFrom, f.LearnDelFAMDateTo) {
			return f
		}
	}
	return nil
}

// OverlappingFAMs returns FAMs of famType whose period overlaps the previous
// one in DateFrom order.
func OverlappingFAMs(fams []*types.LearningDeliveryFAM, famType string) []*types.LearningDeliveryFAM {
	return OverlappingPairs(FAMsOfType(fams, famType), famDateFrom, famDateTo)
}
