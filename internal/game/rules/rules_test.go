package rules

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mitchelldurbincs/hextactics/internal/game/actions"
	"github.com/mitchelldurbincs/hextactics/internal/game/core"
	"github.com/mitchelldurbincs/hextactics/internal/game/targeting"
	"github.com/mitchelldurbincs/hextactics/internal/testutil"
)

func TestEndConditionChecker(t *testing.T) {
	tests := []struct {
		name            string
		playerHP        float64
		enemyHP         float64
		roundsCompleted int
		maxRounds       int
		want            EndResult
	}{
		{"Ongoing", 10, 10, 1, 100, EndResult{}},
		{"PlayerDown", 0, 10, 1, 100, EndResult{Over: true, Reason: ReasonDefeat}},
		{"EnemiesDown", 10, 0, 1, 100, EndResult{Over: true, Victory: true, Reason: ReasonVictory}},
		{"BothDownIsDefeat", 0, 0, 1, 100, EndResult{Over: true, Reason: ReasonDefeat}},
		{"RoundLimit", 10, 10, 5, 5, EndResult{Over: true, Reason: ReasonMaxRounds}},
		{"VictoryBeatsRoundLimit", 10, 0, 5, 5, EndResult{Over: true, Victory: true, Reason: ReasonVictory}},
		{"NoLimit", 10, 10, 1000, 0, EndResult{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			hero := testutil.NewEntity("hero", core.KindPlayer, 0, 0, 10)
			orc := testutil.NewEntity("orc", core.KindEnemy, 3, 3, 10)
			bf := testutil.NewTestBattlefield(6, 6, hero, orc)
			hero.CurrentHP = tt.playerHP
			orc.CurrentHP = tt.enemyHP

			checker := NewEndConditionChecker(testutil.NopLogger(), tt.maxRounds)
			assert.Equal(t, tt.want, checker.Check(bf, tt.roundsCompleted))
		})
	}
}

func TestEndConditionChecker_NoDesignatedPlayer(t *testing.T) {
	bf := testutil.NewTestBattlefield(6, 6, testutil.NewEntity("orc", core.KindEnemy, 3, 3, 10))
	res := NewEndConditionChecker(testutil.NopLogger(), 0).Check(bf, 0)
	assert.True(t, res.Over)
	assert.False(t, res.Victory)
}

func TestEndConditionChecker_AlliesDoNotCountAsEnemies(t *testing.T) {
	bf := testutil.NewTestBattlefield(6, 6,
		testutil.NewEntity("hero", core.KindPlayer, 0, 0, 10),
		testutil.NewEntity("squire", core.KindAlly, 1, 0, 10),
		testutil.NewEntity("villager", core.KindNPC, 4, 4, 10),
	)
	res := NewEndConditionChecker(testutil.NopLogger(), 0).Check(bf, 0)
	assert.Equal(t, EndResult{Over: true, Victory: true, Reason: ReasonVictory}, res)
}

func TestSurvivorsByKind(t *testing.T) {
	dead := testutil.NewEntity("bones", core.KindEnemy, 2, 2, 10)
	dead.CurrentHP = 0
	bf := testutil.NewTestBattlefield(6, 6,
		testutil.NewEntity("hero", core.KindPlayer, 0, 0, 10),
		testutil.NewEntity("orc", core.KindEnemy, 3, 3, 10),
		testutil.NewEntity("imp", core.KindEnemy, 4, 3, 10),
		dead,
	)
	assert.Equal(t, map[string]int{"Player": 1, "Enemy": 2}, SurvivorsByKind(bf))
}

func TestLegalActionCalculator(t *testing.T) {
	slash := &actions.Definition{Name: "slash", Category: actions.CategorySkill, Range: 1, Damage: 5, TargetType: actions.TargetEnemy}
	bow := &actions.Definition{Name: "bow", Category: actions.CategorySkill, Range: 3, Damage: 3, TargetType: actions.TargetEnemy}
	step := &actions.Definition{Name: "step", Category: actions.CategoryMove, Range: 1, TargetType: actions.TargetMovement}
	catalog, err := actions.NewMemoryCatalog(slash, bow, step)
	require.NoError(t, err)

	hero := testutil.NewEntity("hero", core.KindPlayer, 2, 2, 20)
	orc := testutil.NewEntity("orc", core.KindEnemy, 5, 2, 10)
	bf := testutil.NewTestBattlefield(10, 10, hero, orc)
	calc := NewLegalActionCalculator(catalog, targeting.NewEngine(bf, testutil.NopLogger()))

	legal := calc.LegalActions(hero)
	require.Len(t, legal, 2, "slash has no enemy in reach")
	assert.Equal(t, "bow", legal[0].Action.Name)
	assert.Equal(t, []core.HexCell{orc.Position}, legal[0].Targets)
	assert.Equal(t, "step", legal[1].Action.Name)
	assert.Len(t, legal[1].Targets, 6)

	// Allow-lists narrow skills without touching moves
	hero.Actions.Skills = []string{"slash"}
	legal = calc.LegalActions(hero)
	require.Len(t, legal, 1)
	assert.Equal(t, "step", legal[0].Action.Name)

	hero.CurrentHP = 0
	assert.Empty(t, calc.LegalActions(hero))
}
