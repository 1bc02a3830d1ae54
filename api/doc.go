// Package api
// Author: momentics <momentics@gmail.com>
//
// Public contracts of the hioload-rxpool library: the receive pool
// interface, the message descriptor written by the allocator, the bpage
// geometry constants, and the shared error taxonomy.
package api
