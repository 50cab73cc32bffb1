package domain

import "strings"

// IntegrationCategory partitions integration selections.
type IntegrationCategory int

const (
	CategoryCRM IntegrationCategory = iota
	CategoryMarketing
	CategoryPayment
	CategoryAPI
	CategoryAutomation
	CategoryEngagement
	CategoryAdvanced
	CategoryEcommerce
	categoryCount
)

// CustomOption is the option key that requires free-text custom names.
const CustomOption = "custom"

// Option is one selectable integration.
type Option struct {
	Key   string
	Label string
}

type categoryInfo struct {
	field  string
	label  string
	custom bool
}

var categories = [...]categoryInfo{
	CategoryCRM:        {field: "crm", label: "CRM", custom: true},
	CategoryMarketing:  {field: "marketing", label: "Marketing Automation", custom: true},
	CategoryPayment:    {field: "payment", label: "Payment Gateway", custom: true},
	CategoryAPI:        {field: "api", label: "Third-Party APIs", custom: true},
	CategoryAutomation: {field: "automation", label: "Automation Platform", custom: true},
	CategoryEngagement: {field: "engagement", label: "Engagement Features"},
	CategoryAdvanced:   {field: "advanced", label: "Advanced Features"},
	CategoryEcommerce:  {field: "ecommerce", label: "E-commerce Features"},
}

var catalog = [...][]Option{
	CategoryCRM: {
		{"hubspot", "HubSpot"},
		{"salesforce", "Salesforce"},
		{"zoho", "Zoho CRM"},
		{"pipedrive", "Pipedrive"},
		{"none", "No CRM"},
		{CustomOption, "Other (custom)"},
	},
	CategoryMarketing: {
		{"mailchimp", "Mailchimp"},
		{"klaviyo", "Klaviyo"},
		{"activecampaign", "ActiveCampaign"},
		{"convertkit", "ConvertKit"},
		{"hubspot-marketing", "HubSpot Marketing Hub"},
		{CustomOption, "Other (custom)"},
	},
	CategoryPayment: {
		{"stripe", "Stripe"},
		{"paypal", "PayPal"},
		{"square", "Square"},
		{"authorize-net", "Authorize.net"},
		{CustomOption, "Other (custom)"},
	},
	CategoryAPI: {
		{"google-maps", "Google Maps"},
		{"calendly", "Calendly"},
		{"zoom", "Zoom"},
		{"google-analytics", "Google Analytics"},
		{CustomOption, "Other (custom)"},
	},
	CategoryAutomation: {
		{"zapier", "Zapier"},
		{"make", "Make"},
		{"n8n", "n8n"},
		{CustomOption, "Other (custom)"},
	},
	CategoryEngagement: {
		{"live-chat", "Live Chat"},
		{"chatbot", "AI Chatbot"},
		{"newsletter-signup", "Newsletter Signup"},
		{"social-feed", "Social Media Feed"},
		{"reviews", "Customer Reviews"},
	},
	CategoryAdvanced: {
		{"multilingual", "Multilingual Content"},
		{"site-search", "Site Search"},
		{"booking", "Online Booking"},
		{"member-portal", "Member Portal"},
		{"analytics-dashboard", "Analytics Dashboard"},
	},
	CategoryEcommerce: {
		{"product-catalog", "Product Catalog"},
		{"shopping-cart", "Shopping Cart"},
		{"subscriptions", "Subscriptions"},
		{"inventory", "Inventory Management"},
		{"digital-downloads", "Digital Downloads"},
	},
}

// Both tables must cover every category.
var (
	_ [categoryCount]struct{} = [len(categories)]struct{}{}
	_ [categoryCount]struct{} = [len(catalog)]struct{}{}
)

// Categories lists every category in display order.
func Categories() []IntegrationCategory {
	out := make([]IntegrationCategory, 0, categoryCount)
	for c := IntegrationCategory(0); c < categoryCount; c++ {
		out = append(out, c)
	}
	return out
}

func (c IntegrationCategory) String() string { return categories[c].label }

// Field is the JSON field name of the category.
func (c IntegrationCategory) Field() string { return categories[c].field }

// AllowsCustom reports whether the category offers the custom option.
func (c IntegrationCategory) AllowsCustom() bool { return categories[c].custom }

// Options returns the selectable options of the category.
func (c IntegrationCategory) Options() []Option { return catalog[c] }

// Label returns the display label of an option key.
func (c IntegrationCategory) Label(key string) (string, bool) {
	for _, o := range catalog[c] {
		if o.Key == key {
			return o.Label, true
		}
	}
	return "", false
}

// CategorySelection is the client's choice within one category.
type CategorySelection struct {
	Selected    []string `json:"selected,omitempty"`
	CustomNames []string `json:"customNames,omitempty"`
}

func (s CategorySelection) IsZero() bool {
	return len(s.Selected) == 0 && len(s.CustomNames) == 0
}

func (s CategorySelection) has(key string) bool {
	for _, k := range s.Selected {
		if k == key {
			return true
		}
	}
	return false
}

type Integrations struct {
	CRM        CategorySelection `json:"crm"`
	Marketing  CategorySelection `json:"marketing"`
	Payment    CategorySelection `json:"payment"`
	API        CategorySelection `json:"api"`
	Automation CategorySelection `json:"automation"`
	Engagement CategorySelection `json:"engagement"`
	Advanced   CategorySelection `json:"advanced"`
	Ecommerce  CategorySelection `json:"ecommerce"`
	Notes      string            `json:"notes,omitempty"`
}

// Get returns the selection of one category.
func (in Integrations) Get(c IntegrationCategory) CategorySelection {
	switch c {
	case CategoryCRM:
		return in.CRM
	case CategoryMarketing:
		return in.Marketing
	case CategoryPayment:
		return in.Payment
	case CategoryAPI:
		return in.API
	case CategoryAutomation:
		return in.Automation
	case CategoryEngagement:
		return in.Engagement
	case CategoryAdvanced:
		return in.Advanced
	case CategoryEcommerce:
		return in.Ecommerce
	}
	return CategorySelection{}
}

func (in Integrations) IsZero() bool {
	for _, c := range Categories() {
		if !in.Get(c).IsZero() {
			return false
		}
	}
	return in.Notes == ""
}

// Labels returns display labels for the selection, custom names included.
func (in Integrations) Labels(c IntegrationCategory) []string {
	sel := in.Get(c)
	out := make([]string, 0, len(sel.Selected)+len(sel.CustomNames))
	for _, key := range sel.Selected {
		if key == CustomOption {
			continue
		}
		if label, ok := c.Label(key); ok {
			out = append(out, label)
		}
	}
	if sel.has(CustomOption) {
		for _, name := range sel.CustomNames {
			if name = strings.TrimSpace(name); name != "" {
				out = append(out, name)
			}
		}
	}
	return out
}

// Validate checks option keys against the catalog and requires custom names
// whenever the custom option is chosen.
func (in Integrations) Validate() error {
	verr := &ValidationError{}
	in.validateInto(verr, "integrations")
	return verr.Err()
}

func (in Integrations) validateInto(verr *ValidationError, prefix string) {
	for _, c := range Categories() {
		sel := in.Get(c)
		field := prefix + "." + c.Field()
		for _, key := range sel.Selected {
			if _, ok := c.Label(key); !ok {
				verr.Add(field+".selected", "unknown option "+key)
			}
		}
		if !sel.has(CustomOption) {
			continue
		}
		if !hasNonBlank(sel.CustomNames) {
			verr.Add(field+".customNames", "at least one custom name is required when custom is selected")
			continue
		}
		for _, name := range sel.CustomNames {
			if strings.TrimSpace(name) == "" {
				verr.Add(field+".customNames", "custom names must not be blank")
				break
			}
		}
	}
}

func hasNonBlank(values []string) bool {
	for _, v := range values {
		if strings.TrimSpace(v) != "" {
			return true
		}
	}
	return false
}
