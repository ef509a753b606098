// Package graph provides the graph database client used by the knowledge store.
//
// GraphClient is deliberately small: reads go through Query, writes through
// Execute, and everything domain specific is expressed as Cypher by callers.
//
//   - Neo4jClient: production implementation using the Neo4j Go driver
//   - MockGraphClient: scripted implementation for unit tests
//
// Driver connectivity failures are reported as ErrCodeGraphConnectionLost so
// callers can distinguish an unreachable database from a bad statement:
//
//	client, err := graph.NewNeo4jClient(cfg)
//	if err != nil {
//	    return err
//	}
//	if err := client.Connect(ctx); err != nil {
//	    return err
//	}
//	defer client.Close(ctx)
//
//	res, err := client.Query(ctx, "MATCH (e:Entity {id: $id}) RETURN count(e) AS n",
//	    map[string]any{"id": "dept_sales"})
package graph
