package heatmap

// industryLabels maps long industry names to short labels fitting a treemap tile. "<br>" is a
// line break for the chart renderer.
var industryLabels = map[string]string{
	"Financial Data & Stock Exchanges":         "Financial Data<br>& Stock Exchanges",
	"Utilities - Regulated Gas":                "Regulated Gas",
	"Utilities - Independent Power Producers":  "Independent<br>Power Producers",
	"Utilities - Renewable":                    "Renewable",
	"Utilities - Regulated Electric":           "Regulated Electric",
	"Real Estate - Diversified":                "Diversified",
	"Real Estate Services":                     "Services",
	"Real Estate - Development":                "Development",
	"Farm & Heavy Construction Machinery":      "Farm & Heavy<br>Construction Machinery",
	"Staffing & Employment Services":           "Staffing & Employment<br>Services",
	"Specialty Industrial Machinery":           "Specialty Industrial<br>Machinery",
	"Specialty Business Services":              "Specialty Business<br>Services",
	"Drug Manufacturers - Specialty & Generic": "Drug Manufacturers<br>Specialty & Generic",
	"Medical Care Facilities":                  "Medical Care<br>Facilities",
	"Medical Instruments & Supplies":           "Medical Instruments<br>& Supplies",
	"Pharmaceutical Retailers":                 "Pharmaceutical<br>Retailers",
	"Scientific & Technical Instruments":       "Scientific & Technical<br>Instruments",
	"Electronics & Computer Distribution":      "Electronics & Computer<br>Distribution",
	"Furnishings, Fixtures & Appliances":       "Furnishings,<br>Fixtures & Appliances",
	"Information Technology Services":          "Information Technology<br>Services",
	"Software - Infrastructure":                "Infrastructure",
	"Oil & Gas Integrated":                     "Integrated",
	"Insurance - Property & Casualty":          "Property & Casualty",
	"Electronic Gaming & Multimedia":           "Electronic<br>Gaming & Multimedia",
	"Software - Application":                   "Application",
	"Oil & Gas Refining & Marketing":           "Refining & Marketing",
	"Residential Construction":                 "Residential<br>Construction",
	"Beverages - Wineries & Distilleries":      "Wineries & Distilleries",
	"Infrastructure Operations":                "Infrastructure<br>Operations",
	"Security & Protection Services":           "Security & Protection<br>Services",
	"Rental & Leasing Services":                "Rental & Leasing<br>Services",
	"Industrial Distribution":                  "Industrial<br>Distribution",
	"Advertising Agencies":                     "Advertising<br>Agencies",
	"Household & Personal Products":            "Household & Personal<br>Products",
	"Beverages - Non-Alcoholic":                "Non-Alcoholic",
	"Communication Equipment":                  "Communication<br>Equipment",
	"Internet Content & Information":           "Internet<br>Content & Information",
	"Lumber & Wood Production":                 "Lumber & Wood<br>Production",
	"Insurance - Diversified":                  "Diversified",
}

// IndustryLabel returns the short label of an industry, the industry itself when it has none.
func IndustryLabel(industry string) string {
	if label, ok := industryLabels[industry]; ok {
		return label
	}
	return industry
}
