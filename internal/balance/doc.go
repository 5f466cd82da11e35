// Package balance extracts dominant colour groups from a Lab image and scores
// them against the 60-30-10 design rule.
//
// The pipeline runs in four stages, each consuming only the previous stage's
// output:
//
//	Aggregate  per-region mean colour and pixel area
//	Cluster    k-means over region means, areas summed per cluster
//	Merge      greedy CIEDE2000 merge of near-duplicate clusters
//	Evaluate   top three groups against the target percentages
//
// Merge is order sensitive: each anchor is compared by its own
// original centroid against later clusters only, so permuting the raw clusters
// can change the grouping.
package balance
