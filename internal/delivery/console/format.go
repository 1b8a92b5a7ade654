package console

import (
	"fmt"
	"strings"
	"text/tabwriter"
	"time"

	"greenhood/internal/domain/entity"
	"greenhood/internal/infra/i18n"
)

const timeLayout = "2006-01-02 15:04"

// table renders rows as aligned columns.
func table(header []string, rows [][]string) string {
	var b strings.Builder
	w := tabwriter.NewWriter(&b, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, strings.Join(header, "\t"))
	for _, row := range rows {
		fmt.Fprintln(w, strings.Join(row, "\t"))
	}
	_ = w.Flush()

	return strings.TrimRight(b.String(), "\n")
}

func decimal(v float64) string {
	return fmt.Sprintf("%.2f", v)
}

func (c *Console) typeLabel(name string) string {
	key := i18n.DisposalTypeKey(name)
	if label := c.localizer.Get(key); label != key {
		return label
	}

	return name
}

func (c *Console) stateLabel(state entity.LifecycleState) string {
	return c.localizer.Get("state" + strings.ToLower(string(state)))
}

func (c *Console) records(records []entity.DisposalRecord) string {
	if len(records) == 0 {
		return c.localizer.Get("emptylist")
	}

	rows := make([][]string, 0, len(records))
	for i := range records {
		r := &records[i]
		rows = append(rows, []string{
			fmt.Sprintf("#%d", r.ItemID),
			c.typeLabel(r.TypeName),
			c.stateLabel(r.State()),
			decimal(r.Weight),
			decimal(r.Volume),
			decimal(r.Score),
			decimal(r.TransportCost),
			r.DiscardedAt.Local().Format(timeLayout),
			r.IndividualName,
			r.OrganizationName,
		})
	}

	return table([]string{"ID", "TYPE", "STATE", "KG", "M3", "SCORE", "TRANSPORT", "DISCARDED", "OWNER", "ORGANIZATION"}, rows)
}

func (c *Console) leaderboard(entries []entity.LeaderboardEntry) string {
	if len(entries) == 0 {
		return c.localizer.Get("emptylist")
	}

	rows := make([][]string, 0, len(entries))
	for i, e := range entries {
		rows = append(rows, []string{fmt.Sprint(i + 1), e.Name, decimal(e.Score)})
	}

	return table([]string{"#", "NAME", "SCORE"}, rows)
}

func (c *Console) localities(options []entity.LocalityOption) string {
	if len(options) == 0 {
		return c.localizer.Get("emptylist")
	}

	rows := make([][]string, 0, len(options))
	for _, o := range options {
		rows = append(rows, []string{fmt.Sprint(o.ID), o.Name})
	}

	return table([]string{"ID", "NAME"}, rows)
}

func (c *Console) disposalTypes(types []entity.DisposalType) string {
	if len(types) == 0 {
		return c.localizer.Get("emptylist")
	}

	rows := make([][]string, 0, len(types))
	for _, t := range types {
		rows = append(rows, []string{fmt.Sprint(t.ID), c.typeLabel(t.Name), decimal(t.ScoreCoefficient), decimal(t.TransportCostCoefficient)})
	}

	return table([]string{"ID", "TYPE", "SCORE/KG", "TRANSPORT/M3"}, rows)
}

func (c *Console) individualStats(stats *entity.IndividualStats) string {
	return table([]string{"ITEMS", "KG", "M3", "SCORE", "RECYCLED", "RESERVED"}, [][]string{{
		fmt.Sprint(stats.TotalCount),
		decimal(stats.TotalWeight),
		decimal(stats.TotalVolume),
		decimal(stats.TotalScore),
		fmt.Sprint(stats.RecycledCount),
		fmt.Sprint(stats.ReservedCount),
	}})
}

func (c *Console) organizationStats(stats *entity.OrganizationStats) string {
	return table([]string{"RESERVED", "RESERVED KG", "RESERVED M3", "RECYCLED", "RECYCLED KG", "RECYCLED M3", "SCORE"}, [][]string{{
		fmt.Sprint(stats.ReservedCount),
		decimal(stats.ReservedWeight),
		decimal(stats.ReservedVolume),
		fmt.Sprint(stats.RecycledCount),
		decimal(stats.RecycledWeight),
		decimal(stats.RecycledVolume),
		decimal(stats.TotalScore),
	}})
}

func (c *Console) individualProfile(p *entity.IndividualProfile) string {
	return table([]string{"FIELD", "VALUE"}, [][]string{
		{"name", p.FullName()},
		{"national id", p.NationalID},
		{"age", fmt.Sprint(p.Age)},
		{"e-mail", p.Email},
		{"phone", p.Phone},
		{"address", p.AddressText},
		{"discarded kg", decimal(p.TotalWeight)},
		{"discarded m3", decimal(p.TotalVolume)},
		{"recycled kg", decimal(p.RecycledWeight)},
		{"recycled m3", decimal(p.RecycledVolume)},
		{"score", decimal(p.TotalScore)},
		{"member since", p.CreatedAt.Local().Format(time.DateOnly)},
	})
}

func (c *Console) organizationProfile(p *entity.OrganizationProfile) string {
	labels := make([]string, 0, len(p.SupportedTypes))
	for _, name := range p.SupportedTypes {
		labels = append(labels, c.typeLabel(name))
	}

	return table([]string{"FIELD", "VALUE"}, [][]string{
		{"name", p.Name},
		{"tax number", p.TaxID},
		{"phone", p.Phone},
		{"fax", p.Fax},
		{"government", fmt.Sprint(p.IsGovernment)},
		{"address", p.AddressText},
		{"accepts", strings.Join(labels, ", ")},
		{"reserved kg", decimal(p.ReservedWeight)},
		{"reserved m3", decimal(p.ReservedVolume)},
		{"recycled kg", decimal(p.RecycledWeight)},
		{"recycled m3", decimal(p.RecycledVolume)},
	})
}
