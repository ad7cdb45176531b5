package aggregates

// WriteTxOwnership defines who owns write transaction boundaries.
type WriteTxOwnership string

const (
	// WriteTxOwnedByAggregate means the aggregate opens and commits its own transaction.
	WriteTxOwnedByAggregate WriteTxOwnership = "aggregate_owned"
	// WriteTxNone means the aggregate performs no writes.
	WriteTxNone WriteTxOwnership = "none"
)

// ReadPolicy defines how an aggregate reads.
type ReadPolicy string

const (
	// ReadPolicyInvariantScoped allows only reads needed for invariant decisions in write flows.
	ReadPolicyInvariantScoped ReadPolicy = "invariant_scoped_reads"
	// ReadPolicyGraphAssembly allows pooled, concurrent relation loads outside a transaction.
	ReadPolicyGraphAssembly ReadPolicy = "graph_assembly_reads"
)

// Contract describes aggregate-level policy expectations.
type Contract struct {
	Name             string
	WriteTxOwnership WriteTxOwnership
	ReadPolicy       ReadPolicy
	Notes            string
}

// Aggregate is the common marker for all aggregate contracts.
type Aggregate interface {
	Contract() Contract
}

func (c Contract) RequiresAggregateOwnedTx() bool {
	return c.WriteTxOwnership == WriteTxOwnedByAggregate
}

var (
	InsightGraphContract = Contract{
		Name:             "insight_graph",
		WriteTxOwnership: WriteTxNone,
		ReadPolicy:       ReadPolicyGraphAssembly,
		Notes:            "pages id sets before loading relations; visibility is public or owner",
	}
	LinkSaveContract = Contract{
		Name:             "link_save",
		WriteTxOwnership: WriteTxOwnedByAggregate,
		ReadPolicy:       ReadPolicyInvariantScoped,
		Notes:            "source resolution and link insert commit together",
	}
)
