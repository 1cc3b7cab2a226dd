package kernel

type UserID string

func NewUserID(id string) UserID { return UserID(id) }
func (u UserID) String() string  { return string(u) }
func (u UserID) IsEmpty() bool   { return string(u) == "" }

type AnalysisID string

func NewAnalysisID(id string) AnalysisID { return AnalysisID(id) }
func (a AnalysisID) String() string      { return string(a) }
func (a AnalysisID) IsEmpty() bool       { return string(a) == "" }

type JobID string

func NewJobID(id string) JobID { return JobID(id) }
func (j JobID) String() string { return string(j) }
func (j JobID) IsEmpty() bool  { return string(j) == "" }
