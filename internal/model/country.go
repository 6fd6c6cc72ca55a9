package model

// Country is a selectable country of origin on the registration form.
type Country struct {
	Name     string
	DialCode string
}

// DefaultCountry is preselected on the registration form.
const DefaultCountry = "Indonesia"

// Countries lists the supported countries with their phone dial codes.
var Countries = []Country{
	{Name: "Indonesia", DialCode: "+62"},
	{Name: "Malaysia", DialCode: "+60"},
	{Name: "Singapura", DialCode: "+65"},
	{Name: "Thailand", DialCode: "+66"},
	{Name: "Vietnam", DialCode: "+84"},
	{Name: "Filipina", DialCode: "+63"},
	{Name: "Brunei Darussalam", DialCode: "+673"},
	{Name: "Kamboja", DialCode: "+855"},
	{Name: "Laos", DialCode: "+856"},
	{Name: "Timor Leste", DialCode: "+670"},
}

// DialCode returns the dial code for the named country, or "" when the
// country is unknown.
func DialCode(name string) string {
	for _, c := range Countries {
		if c.Name == name {
			return c.DialCode
		}
	}
	return ""
}
