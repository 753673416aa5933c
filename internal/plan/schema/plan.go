package schema

// PlanFields is the structural contract every stored plan must satisfy.
// Members not listed here are accepted and stored as sent.
var PlanFields = []Field{
	{Name: "objectId", Type: String, Required: true, Format: FormatIdentifier},
	{Name: "plan", Type: String, Required: true, MinLength: 1},
	{Name: "creationDate", Type: String, Format: FormatDate},
	{Name: "objectType", Type: String},
	{Name: "_org", Type: String},
	{Name: "planType", Type: String},
	{Name: "planCostShares", Type: Object, Properties: []Field{
		{Name: "deductible", Type: Number},
		{Name: "copay", Type: Number},
		{Name: "_org", Type: String},
		{Name: "objectId", Type: String, Format: FormatIdentifier},
		{Name: "objectType", Type: String},
	}},
	{Name: "linkedPlanServices", Type: Array, Items: &Field{
		Type: Object,
		Properties: []Field{
			{Name: "objectId", Type: String, Format: FormatIdentifier},
			{Name: "objectType", Type: String},
			{Name: "_org", Type: String},
		},
	}},
}

// NewPlanSchema compiles PlanFields with the built-in formats.
func NewPlanSchema() (*Schema, error) {
	return Compile(PlanFields, NewFormats())
}
