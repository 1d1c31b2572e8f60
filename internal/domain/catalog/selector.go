package catalog

// ResolveVariant returns the variant whose option set matches every given
// selection. With no selections it returns the first available variant,
// falling back to the first variant overall so a selection is always
// pre-populated. It returns nil when the variant list is empty or when no
// variant satisfies the selections.
//
// When several variants match partial selections, the first match in
// catalog-declared order wins. Resolution is deterministic so repeated
// renders of the same state select the same variant.
func ResolveVariant(variants []Variant, selections map[string]string) *Variant {
	if len(variants) == 0 {
		return nil
	}

	if len(selections) == 0 {
		for i := range variants {
			if variants[i].Available {
				return &variants[i]
			}
		}
		return &variants[0]
	}

	for i := range variants {
		if variantMatches(&variants[i], selections) {
			return &variants[i]
		}
	}
	return nil
}

func variantMatches(v *Variant, selections map[string]string) bool {
	for name, value := range selections {
		if optionValue(v, name) != value {
			return false
		}
	}
	return true
}

func optionValue(v *Variant, name string) string {
	for _, o := range v.Options {
		if o.Name == name {
			return o.Value
		}
	}
	return ""
}

// ResolvePrice returns the price option on the variant matching the given
// identifier. If none matches, it falls back to the variant's first listed
// price option, which covers a previously selected tier (e.g. a billing
// interval) that does not exist on a newly resolved variant. It returns nil
// only when the variant is nil or carries no price options.
func ResolvePrice(v *Variant, priceOptionID string) *PriceOption {
	if v == nil || len(v.Prices) == 0 {
		return nil
	}
	for i := range v.Prices {
		if v.Prices[i].ID == priceOptionID {
			return &v.Prices[i]
		}
	}
	return &v.Prices[0]
}
