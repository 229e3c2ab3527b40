package predicates

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/solatis/ilrkeeper/internal/types"
)

func famWithCode(famType, code string) *types.LearningDeliveryFAM {
	return &types.LearningDeliveryFAM{LearnDelFAMType: famType, LearnDelFAMCode: &code}
}

func TestFAMsOfType(t *testing.T) {
	a := famWithCode("SOF", "105")
	b := famWithCode("sof", "107")
	other := famWithCode("LDM", "034")
	fams := []*types.LearningDeliveryFAM{a, nil, other, b}

	assert.Equal(t, []*types.LearningDeliveryFAM{a, b}, FAMsOfType(fams, "SOF"))
	assert.Empty(t, FAMsOfType(fams, "ACT"))
	assert.True(t, HasFAMType(fams, "ldm"))
	assert.False(t, HasFAMType(nil, "LDM"))
}

func TestFAMCovering(t *testing.T) {
	first := fam("ACT", day(2019, 8, 1), day(2019, 12, 31))
	second := fam("ACT", day(2020, 1, 1), nil)
	fams := []*types.LearningDeliveryFAM{first, second}

	assert.Same(t, first, FAMCovering(fams, "ACT", *day(2019, 12, 31)))
	assert.Same(t, second, FAMCovering(fams, "act", *day(2021, 3, 1)))
	assert.Nil(t, FAMCovering(fams, "ACT", *day(2019, 7, 31)))
	assert.Nil(t, FAMCovering(fams, "LSF", *day(2020, 1, 1)))
}
