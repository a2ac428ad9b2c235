package diagram

import "strings"

// GenericTypeID is the placeholder node type used for unrecognized names.
// Unknown components still render; they never abort a request.
const GenericTypeID = "generic"

// Vocabulary maps free-form type names (model output, template keys) to
// renderable node descriptors. Built once at startup, read-only afterwards,
// safe for unsynchronized concurrent reads.
type Vocabulary struct {
	byID     map[string]NodeType
	synonyms map[string]string // synonym -> canonical ID
}

// NewVocabulary builds the default node-type catalog.
func NewVocabulary() *Vocabulary {
	v := &Vocabulary{
		byID:     make(map[string]NodeType),
		synonyms: make(map[string]string),
	}

	for _, nt := range []NodeType{
		{ID: "compute", Label: "Compute", Category: CategoryCompute, Provider: "aws", Shape: "box3d", FillColor: "#FBD8B4"},
		{ID: "relational-database", Label: "Database", Category: CategoryStorage, Provider: "aws", Shape: "cylinder", FillColor: "#C5E0F5"},
		{ID: "load-balancer", Label: "Load Balancer", Category: CategoryNetwork, Provider: "aws", Shape: "hexagon", FillColor: "#D7C5F0"},
		{ID: "object-storage", Label: "Object Storage", Category: CategoryStorage, Provider: "aws", Shape: "folder", FillColor: "#C7EBC5"},
		{ID: "queue", Label: "Message Queue", Category: CategoryNetwork, Provider: "aws", Shape: "cds", FillColor: "#F5D5E0"},
		{ID: "cache", Label: "Cache", Category: CategoryStorage, Provider: "generic", Shape: "component", FillColor: "#F9E9B8"},
		{ID: "api-gateway", Label: "API Gateway", Category: CategoryNetwork, Provider: "aws", Shape: "invhouse", FillColor: "#D7C5F0"},
		{ID: "vpc", Label: "VPC", Category: CategoryNetwork, Provider: "aws", Shape: "oval", FillColor: "#E2E2E2"},
		{ID: "internet", Label: "Internet", Category: CategoryNetwork, Provider: "generic", Shape: "doublecircle", FillColor: "#E2E2E2"},
		{ID: "monitoring", Label: "Monitoring", Category: CategoryMonitoring, Provider: "aws", Shape: "note", FillColor: "#FAD4C4"},
		{ID: "iam", Label: "IAM", Category: CategorySecurity, Provider: "aws", Shape: "octagon", FillColor: "#F0B8B8"},
		{ID: "react", Label: "React", Category: CategoryLanguage, Provider: "generic", Shape: "tab", FillColor: "#C5E8F5"},
		{ID: "fastapi", Label: "FastAPI", Category: CategoryLanguage, Provider: "generic", Shape: "tab", FillColor: "#C7EBC5"},
		{ID: "python", Label: "Python", Category: CategoryLanguage, Provider: "generic", Shape: "tab", FillColor: "#F9E9B8"},
		{ID: GenericTypeID, Label: "Component", Category: CategoryCompute, Provider: "generic", Shape: "box", FillColor: "#EDEDED"},
	} {
		v.byID[nt.ID] = nt
	}

	for canonical, syns := range map[string][]string{
		"compute":             {"ec2", "server", "web server", "compute instance", "instance", "virtual machine", "vm", "service", "worker"},
		"relational-database": {"rds", "database", "db", "postgresql", "postgres", "mysql", "sql database"},
		"load-balancer":       {"alb", "elb", "lb", "application load balancer", "balancer"},
		"object-storage":      {"s3", "bucket", "object store", "storage", "blob storage"},
		"queue":               {"sqs", "message queue", "message broker", "broker", "kafka", "rabbitmq"},
		"cache":               {"redis", "memcached", "elasticache"},
		"api-gateway":         {"apigateway", "gateway", "api gw"},
		"vpc":                 {"network", "virtual private cloud", "subnet"},
		"internet":            {"www", "public internet", "users", "client"},
		"monitoring":          {"cloudwatch", "prometheus", "grafana", "metrics", "observability"},
		"iam":                 {"auth", "identity", "access management"},
		"react":               {"frontend", "spa"},
		"fastapi":             {"api server", "backend framework"},
		"python":              {"py"},
	} {
		for _, s := range syns {
			v.synonyms[s] = canonical
		}
	}
	return v
}

// Resolve maps a free-form type name to a node type. Matching is
// case-insensitive and tolerant of underscores/hyphens; unrecognized names
// resolve to the generic placeholder. The second return reports whether the
// name was actually recognized.
func (v *Vocabulary) Resolve(name string) (NodeType, bool) {
	if v == nil {
		return NodeType{ID: GenericTypeID, Label: "Component", Category: CategoryCompute, Provider: "generic", Shape: "box", FillColor: "#EDEDED"}, false
	}
	key := normalizeTypeName(name)
	if nt, ok := v.byID[key]; ok {
		return nt, true
	}
	if canonical, ok := v.synonyms[key]; ok {
		return v.byID[canonical], true
	}
	// Loose pass: spaces vs. hyphens should not matter either way.
	if nt, ok := v.byID[strings.ReplaceAll(key, " ", "-")]; ok {
		return nt, true
	}
	if canonical, ok := v.synonyms[strings.ReplaceAll(key, "-", " ")]; ok {
		return v.byID[canonical], true
	}
	return v.byID[GenericTypeID], false
}

// Generic returns the placeholder node type.
func (v *Vocabulary) Generic() NodeType {
	nt, _ := v.Resolve(GenericTypeID)
	return nt
}

func normalizeTypeName(name string) string {
	name = strings.ToLower(strings.TrimSpace(name))
	name = strings.ReplaceAll(name, "_", " ")
	return strings.Join(strings.Fields(name), " ")
}
