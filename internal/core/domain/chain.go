package domain

// RegulatoryChain groups an Implementing Rule with every AMC and GM that
// attaches to it. The partitions are disjoint and each is ordered by the
// numeric AMC/GM index (AMC1 before AMC2).
type RegulatoryChain struct {
	// IR is the chain root.
	IR Topic

	// AMCs are the acceptable means of compliance for the IR.
	AMCs []Topic

	// GMs are the guidance material for the IR.
	GMs []Topic
}

// Size returns the total number of topics in the chain.
func (c RegulatoryChain) Size() int {
	return 1 + len(c.AMCs) + len(c.GMs)
}
