package rendezvous

// Stats summarizes an appointment set for the back-office dashboard. The
// counts are recomputed from the full filtered set on every read; nothing is
// maintained incrementally.
//
// CetteSemaine and CeMois are part of the response contract consumed by the
// dashboard but are not computed yet; they stay at zero until the week/month
// bucketing rules are settled with the product side.
type Stats struct {
	Total        int `json:"total"`
	EnAttente    int `json:"enAttente"`
	Confirmes    int `json:"confirmes"`
	Annules      int `json:"annules"`
	Termines     int `json:"termines"`
	Reportes     int `json:"reportes"`
	Aujourdhui   int `json:"aujourdhui"`
	CetteSemaine int `json:"cetteSemaine"`
	CeMois       int `json:"ceMois"`
}

// CalculateStats derives the per-status and today counts from the given
// appointments. today must be a YYYY-MM-DD string; the today count is plain
// string equality against each appointment's date.
func CalculateStats(items []*RendezVous, today string) Stats {
	s := Stats{Total: len(items)}
	for _, rdv := range items {
		switch rdv.Statut {
		case StatutEnAttente:
			s.EnAttente++
		case StatutConfirme:
			s.Confirmes++
		case StatutAnnule:
			s.Annules++
		case StatutTermine:
			s.Termines++
		case StatutReporte:
			s.Reportes++
		}
		if rdv.Date == today {
			s.Aujourdhui++
		}
	}
	return s
}
