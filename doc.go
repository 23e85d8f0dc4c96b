/*
Package topn provides a row-wise sparse matrix multiplication kernel that
retains only the top_n largest entries of each output row.

Sparse matrices are fed in and returned in Compressed Sparse Row (CSR) form:
three parallel arrays indptr/indices/data, where indptr has length nrows+1
and the non-zeros of row r are (indices[k], data[k]) for k in
[indptr[r], indptr[r+1]).

The dominant use case is entity-resolution pipelines computing cosine
similarity between TF-IDF vectors of hundreds of thousands of short strings:
the full product A*B is usually too dense to materialise, so this package
streams it row by row through a sparse accumulator (Gustavson's scheme) and
prunes each row down to its top_n largest values (optionally above a
threshold, optionally sorted) before it is ever fully formed.

MatMul computes the plain, unpruned product. MatMulTopN computes the pruned
product, sequentially or in parallel across row ranges. Zip merges
column-partitioned top_n results produced independently (for example on
separate machines, each holding a column slice of B) back into a single
top_n result, without ever materialising the full B.

Callers who already know their index and value types at compile time should
use the generic entry points (MatMulGeneric, MatMulTopNGeneric, ZipGeneric)
directly on Matrix[I, V] and skip the dynamic dispatch in MatMul/MatMulTopN/
Zip, which exist for callers that only learn the concrete dtype at runtime
(for instance a binding that receives matrices from another language).
*/
package topn
