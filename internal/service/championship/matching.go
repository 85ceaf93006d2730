package championship

// maxMatching returns the size of a maximum matching in the undirected graph
// given by adj, using Edmonds' blossom algorithm. Runs in O(n^3).
func maxMatching(adj [][]bool) int {
	n := len(adj)
	m := &blossom{
		adj:     adj,
		match:   make([]int, n),
		parent:  make([]int, n),
		base:    make([]int, n),
		used:    make([]bool, n),
		inBloom: make([]bool, n),
	}
	for i := range m.match {
		m.match[i] = -1
	}

	size := 0
	for root := 0; root < n; root++ {
		if m.match[root] != -1 {
			continue
		}

		v := m.augmentingPath(root)
		if v == -1 {
			continue
		}

		size++
		for v != -1 {
			pv := m.parent[v]
			next := m.match[pv]
			m.match[v] = pv
			m.match[pv] = v
			v = next
		}
	}

	return size
}

// hasPerfectMatching reports whether every vertex can be matched.
func hasPerfectMatching(adj [][]bool) bool {
	if len(adj)%2 != 0 {
		return false
	}

	return maxMatching(adj)*2 == len(adj)
}

type blossom struct {
	adj     [][]bool
	match   []int
	parent  []int
	base    []int
	used    []bool
	inBloom []bool
}

func (m *blossom) lca(a, b int) int {
	seen := make([]bool, len(m.adj))
	for {
		a = m.base[a]
		seen[a] = true
		if m.match[a] == -1 {
			break
		}
		a = m.parent[m.match[a]]
	}
	for {
		b = m.base[b]
		if seen[b] {
			return b
		}
		b = m.parent[m.match[b]]
	}
}

func (m *blossom) markPath(v, b, child int) {
	for m.base[v] != b {
		m.inBloom[m.base[v]] = true
		m.inBloom[m.base[m.match[v]]] = true
		m.parent[v] = child
		child = m.match[v]
		v = m.parent[m.match[v]]
	}
}

// augmentingPath searches from root and returns the free vertex ending an
// augmenting path, or -1. parent links describe the path.
func (m *blossom) augmentingPath(root int) int {
	n := len(m.adj)
	for i := 0; i < n; i++ {
		m.used[i] = false
		m.parent[i] = -1
		m.base[i] = i
	}

	m.used[root] = true
	queue := []int{root}

	for len(queue) > 0 {
		v := queue[0]
		queue = queue[1:]

		for to := 0; to < n; to++ {
			if !m.adj[v][to] || m.base[v] == m.base[to] || m.match[v] == to {
				continue
			}

			if to == root || (m.match[to] != -1 && m.parent[m.match[to]] != -1) {
				cur := m.lca(v, to)
				for i := range m.inBloom {
					m.inBloom[i] = false
				}
				m.markPath(v, cur, to)
				m.markPath(to, cur, v)

				for i := 0; i < n; i++ {
					if m.inBloom[m.base[i]] {
						m.base[i] = cur
						if !m.used[i] {
							m.used[i] = true
							queue = append(queue, i)
						}
					}
				}
				continue
			}

			if m.parent[to] != -1 {
				continue
			}

			m.parent[to] = v
			if m.match[to] == -1 {
				return to
			}

			m.used[m.match[to]] = true
			queue = append(queue, m.match[to])
		}
	}

	return -1
}
