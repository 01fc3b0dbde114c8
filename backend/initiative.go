package backend

import (
	"fmt"
	"sort"
	"strings"

	"github.com/Orcthanc/discord-dieroller/feedback"
	"github.com/Orcthanc/discord-dieroller/frontend"
)

type initiative struct {
	name  string
	total float64
}

// execDMInit rolls initiative for every loaded character and for one enemy
// per argument, each argument being that enemy's modifier. The entries are
// listed highest total first; ties keep characters before enemies
func (e *evaluator) execDMInit(stmt *frontend.DMInitStmt) (string, error) {
	records, err := e.characters()
	if err != nil {
		return "", feedback.Resource(err)
	}

	order := make([]initiative, 0, len(records)+len(stmt.Arguments))

	for _, rec := range records {
		order = append(order, initiative{
			name:  rec.Character.Name,
			total: float64(rollDie(e.env.Dice, 20) + rec.Character.Initiative),
		})
	}

	for i, arg := range stmt.Arguments {
		modifier, err := e.eval(arg)
		if err != nil {
			return "", err
		}

		order = append(order, initiative{
			name:  fmt.Sprintf("Enemy %d", i+1),
			total: float64(rollDie(e.env.Dice, 20)) + modifier.Value,
		})
	}

	sort.SliceStable(order, func(i, j int) bool { return order[i].total > order[j].total })

	var b strings.Builder
	b.WriteString("```\n")

	for _, entry := range order {
		fmt.Fprintf(&b, "%3s: %s\n", formatNumber(entry.total), entry.name)
	}

	b.WriteString("```")
	return b.String(), nil
}
