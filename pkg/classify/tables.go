package classify

// Course categories in resolution order.
//
// "computer science" and "information technology" belong to Computer Science
// only; listing them under Engineering as well would make Engineering win every
// B.Tech/B.E. computing program.
var Courses = NewTable(
	Rule{"Engineering", []string{
		"btech", "be", "mtech", "me", "civil", "mechanical", "electrical",
		"electronics", "chemical",
	}},
	Rule{"Medical", []string{
		"mbbs", "bds", "md", "ms", "nursing", "pharmacy", "physiotherapy",
		"medical", "dental", "veterinary",
	}},
	Rule{"Management", []string{
		"mba", "bba", "pgdm", "management", "business administration",
		"finance", "marketing", "hr", "operations",
	}},
	Rule{"Arts", []string{
		"ba", "ma", "english", "history", "political science", "sociology",
		"psychology", "literature", "fine arts", "performing arts",
	}},
	Rule{"Science", []string{
		"bsc", "msc", "physics", "chemistry", "biology", "mathematics",
		"botany", "zoology", "microbiology", "biotechnology",
	}},
	Rule{"Commerce", []string{
		"bcom", "mcom", "commerce", "accounting", "economics", "taxation",
		"banking", "insurance",
	}},
	Rule{"Computer Science", []string{
		"bca", "mca", "computer science", "information technology",
		"software engineering", "data science", "artificial intelligence",
	}},
	Rule{"Law", []string{
		"llb", "llm", "law", "legal studies", "constitutional law",
		"corporate law", "criminal law",
	}},
)

// Facility categories in resolution order.
var Facilities = NewTable(
	Rule{"Academic", []string{
		"library", "laboratory", "computer lab", "classroom", "auditorium",
		"seminar hall", "conference room", "research center",
	}},
	Rule{"Accommodation", []string{
		"hostel", "dormitory", "residence", "accommodation", "guest house",
		"boys hostel", "girls hostel",
	}},
	Rule{"Recreation", []string{
		"sports complex", "gymnasium", "playground", "swimming pool",
		"cafeteria", "canteen", "food court", "student center",
	}},
	Rule{"Technology", []string{
		"wifi", "internet", "computer center", "smart classroom",
		"projector", "audio visual", "language lab",
	}},
	Rule{"Healthcare", []string{
		"medical center", "health center", "clinic", "infirmary",
		"first aid", "counseling center",
	}},
	Rule{"Transportation", []string{
		"bus service", "transport", "shuttle", "parking", "vehicle",
	}},
)
