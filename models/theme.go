package models

import "strings"

// Theme is a therapy specialty.
type Theme string

const (
	ThemeAnxiety           Theme = "ANXIETY"
	ThemeDepression        Theme = "DEPRESSION"
	ThemePhobias           Theme = "PHOBIAS"
	ThemeRelationships     Theme = "RELATIONSHIPS"
	ThemeSelfEsteem        Theme = "SELF_ESTEEM"
	ThemeStress            Theme = "STRESS"
	ThemeFamilyTherapy     Theme = "FAMILY_THERAPY"
	ThemeCoupleTherapy     Theme = "COUPLE_THERAPY"
	ThemeGrief             Theme = "GRIEF"
	ThemeTrauma            Theme = "TRAUMA"
	ThemeEatingDisorders   Theme = "EATING_DISORDERS"
	ThemeSleepDisorders    Theme = "SLEEP_DISORDERS"
	ThemeAddiction         Theme = "ADDICTION"
	ThemeCareerCounseling  Theme = "CAREER_COUNSELING"
	ThemeChildTherapy      Theme = "CHILD_THERAPY"
	ThemeAdolescentTherapy Theme = "ADOLESCENT_THERAPY"
)

// GeneralConsultation is shown when a psychologist has no theme.
const GeneralConsultation = "Consulta General"

var themeDisplayNames = []struct {
	theme Theme
	name  string
}{
	{ThemeAnxiety, "Ansiedad"},
	{ThemeDepression, "Depresión"},
	{ThemePhobias, "Fobias"},
	{ThemeRelationships, "Relaciones Personales"},
	{ThemeSelfEsteem, "Autoestima"},
	{ThemeStress, "Estrés"},
	{ThemeFamilyTherapy, "Terapia Familiar"},
	{ThemeCoupleTherapy, "Terapia de Pareja"},
	{ThemeGrief, "Duelo"},
	{ThemeTrauma, "Trauma"},
	{ThemeEatingDisorders, "Trastornos Alimentarios"},
	{ThemeSleepDisorders, "Trastornos del Sueño"},
	{ThemeAddiction, "Adicciones"},
	{ThemeCareerCounseling, "Orientación Vocacional"},
	{ThemeChildTherapy, "Terapia Infantil"},
	{ThemeAdolescentTherapy, "Terapia de Adolescentes"},
}

// AllThemes lists every theme in declaration order.
func AllThemes() []Theme {
	out := make([]Theme, 0, len(themeDisplayNames))
	for _, t := range themeDisplayNames {
		out = append(out, t.theme)
	}
	return out
}

// DisplayName returns the human-readable label, or the raw name when unknown.
func (t Theme) DisplayName() string {
	for _, e := range themeDisplayNames {
		if e.theme == t {
			return e.name
		}
	}
	return string(t)
}

// ParseTheme matches a theme by name, case-insensitively.
func ParseTheme(v string) (Theme, bool) {
	v = strings.ToUpper(strings.TrimSpace(v))
	for _, e := range themeDisplayNames {
		if string(e.theme) == v {
			return e.theme, true
		}
	}
	return "", false
}
